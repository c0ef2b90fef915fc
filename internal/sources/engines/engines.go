package engines

import (
	"context"
	"fmt"
	"net/url"

	"quickdash/internal/domain"
)

// Engine is one web search target
type Engine struct {
	Name     string
	QueryURL string // %s receives the escaped query
}

// Provider offers "search the web for <query>" entries for the vertical
// list. It never fails and matches every non-empty query.
type Provider struct {
	engines []Engine
}

// New creates the search-engine provider; nil engines selects defaults
func New(list []Engine) *Provider {
	if len(list) == 0 {
		list = []Engine{
			{Name: "Google", QueryURL: "https://www.google.com/search?q=%s"},
			{Name: "Bing", QueryURL: "https://www.bing.com/search?q=%s"},
		}
	}
	return &Provider{engines: list}
}

// Kind implements sources.Provider
func (p *Provider) Kind() domain.ResultKind { return domain.KindSearchEngine }

// Search implements sources.Provider
func (p *Provider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	out := make([]domain.SearchResult, 0, len(p.engines))
	for _, e := range p.engines {
		target := fmt.Sprintf(e.QueryURL, url.QueryEscape(query))
		out = append(out, domain.SearchResult{
			Kind:        domain.KindSearchEngine,
			DisplayName: fmt.Sprintf("Search %s for %q", e.Name, query),
			Path:        target,
			URL:         target,
		})
	}
	return out, nil
}
