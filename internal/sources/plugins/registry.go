package plugins

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"quickdash/internal/domain"
)

// ExecuteFunc runs a plugin with the launch context (the committed query)
type ExecuteFunc func(ctx context.Context, query string) error

// Registry holds in-process plugin entries. Registration happens at
// startup; lookups race-freely share the table afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries []domain.PluginInfo
	execs   map[string]ExecuteFunc
}

// NewRegistry creates an empty plugin registry
func NewRegistry() *Registry {
	return &Registry{execs: make(map[string]ExecuteFunc)}
}

// Register adds a plugin entry
func (r *Registry) Register(info domain.PluginInfo, exec ExecuteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, info)
	r.execs[info.ID] = exec
}

// Kind implements sources.Provider
func (r *Registry) Kind() domain.ResultKind { return domain.KindPlugin }

// Search implements sources.Provider
func (r *Registry) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	matching := r.ListMatching(query)
	out := make([]domain.SearchResult, 0, len(matching))
	for _, info := range matching {
		out = append(out, domain.SearchResult{
			Kind:        domain.KindPlugin,
			DisplayName: info.Name,
			Path:        "plugin://" + info.ID,
			Description: info.Description,
			PluginID:    info.ID,
		})
	}
	return out, nil
}

// ListMatching returns plugins whose name or id matches the query
func (r *Registry) ListMatching(query string) []domain.PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []domain.PluginInfo
	for _, info := range r.entries {
		if strings.Contains(strings.ToLower(info.Name), needle) ||
			strings.Contains(strings.ToLower(info.ID), needle) {
			out = append(out, info)
		}
	}
	return out
}

// Execute runs the plugin with the given id
func (r *Registry) Execute(ctx context.Context, id, query string) error {
	r.mu.RLock()
	exec, ok := r.execs[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown plugin %q", id)
	}
	return exec(ctx, query)
}
