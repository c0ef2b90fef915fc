package shortcuts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quickdash/internal/domain"
)

// Store holds user-defined shortcuts, persisted as shortcuts.json in the
// app data directory.
type Store struct {
	mu       sync.RWMutex
	filePath string
	items    map[string]domain.ShortcutItem
}

// New creates the shortcut store, loading any existing shortcuts file
func New(dataDir string) (*Store, error) {
	s := &Store{
		filePath: filepath.Join(dataDir, "shortcuts.json"),
		items:    make(map[string]domain.ShortcutItem),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind implements sources.Provider
func (s *Store) Kind() domain.ResultKind { return domain.KindShortcut }

// Search implements sources.Provider
func (s *Store) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var matched []domain.ShortcutItem
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matched = append(matched, item)
		}
	}
	// Map iteration order is unstable; the merge requires determinism
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt > matched[j].CreatedAt })

	out := make([]domain.SearchResult, 0, len(matched))
	for _, item := range matched {
		out = append(out, domain.SearchResult{
			Kind:        domain.KindShortcut,
			DisplayName: item.Name,
			Path:        item.Path,
			Icon:        item.Icon,
		})
	}
	return out, nil
}

// Add creates and persists a new shortcut
func (s *Store) Add(name, path string) (domain.ShortcutItem, error) {
	now := time.Now().Unix()
	item := domain.ShortcutItem{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.items[item.ID] = item
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return domain.ShortcutItem{}, err
	}
	return item, nil
}

// Remove deletes a shortcut by id
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()

	return s.save()
}

// All returns every shortcut, newest first
func (s *Store) All() []domain.ShortcutItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.ShortcutItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt > items[j].CreatedAt })
	return items
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil // no shortcuts yet
	}
	if err != nil {
		return fmt.Errorf("read shortcuts file: %w", err)
	}

	items := make(map[string]domain.ShortcutItem)
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse shortcuts file: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.items, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("serialize shortcuts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("write shortcuts file: %w", err)
	}
	return nil
}
