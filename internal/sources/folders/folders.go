package folders

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"quickdash/internal/domain"
)

// Provider matches well-known system folders by name
type Provider struct {
	entries []domain.SearchResult
}

// New creates the system-folder provider
func New() *Provider {
	return &Provider{entries: defaultEntries()}
}

// Kind implements sources.Provider
func (p *Provider) Kind() domain.ResultKind { return domain.KindSystemFolder }

// Search implements sources.Provider
func (p *Provider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	needle := strings.ToLower(query)
	var out []domain.SearchResult
	for _, entry := range p.entries {
		if strings.Contains(strings.ToLower(entry.DisplayName), needle) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func defaultEntries() []domain.SearchResult {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	named := []struct {
		name string
		path string
	}{
		{"Home", home},
		{"Desktop", filepath.Join(home, "Desktop")},
		{"Documents", filepath.Join(home, "Documents")},
		{"Downloads", filepath.Join(home, "Downloads")},
		{"Pictures", filepath.Join(home, "Pictures")},
		{"Music", filepath.Join(home, "Music")},
		{"Videos", filepath.Join(home, "Videos")},
	}

	var entries []domain.SearchResult
	for _, n := range named {
		if _, err := os.Stat(n.path); err != nil {
			continue
		}
		entries = append(entries, domain.SearchResult{
			Kind:        domain.KindSystemFolder,
			DisplayName: n.name,
			Path:        n.path,
		})
	}
	return entries
}
