package apps

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"quickdash/internal/domain"
)

// Provider enumerates installed applications and matches them against a
// query. The full application list is scanned lazily once and then shared
// by all searches; a directory watcher invalidates it when entries change.
type Provider struct {
	log  *zap.SugaredLogger
	dirs []string

	mu      sync.RWMutex
	cache   []domain.AppInfo
	scanned bool

	watcher *fsnotify.Watcher
}

// New creates an application provider scanning the given directories
func New(log *zap.SugaredLogger, dirs []string) *Provider {
	p := &Provider{log: log, dirs: dirs}
	p.startWatcher()
	return p
}

// Kind implements sources.Provider
func (p *Provider) Kind() domain.ResultKind { return domain.KindApp }

// Search implements sources.Provider
func (p *Provider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	apps, err := p.list(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var out []domain.SearchResult
	for _, app := range apps {
		if !strings.Contains(strings.ToLower(app.Name), needle) {
			continue
		}
		out = append(out, domain.SearchResult{
			Kind:        domain.KindApp,
			DisplayName: app.Name,
			Path:        app.Path,
			Description: app.Description,
			Icon:        app.Icon,
		})
	}
	return out, nil
}

// Scan returns the full application list, populating the cache if needed
func (p *Provider) Scan(ctx context.Context) ([]domain.AppInfo, error) {
	return p.list(ctx)
}

// Close stops the directory watcher
func (p *Provider) Close() {
	if p.watcher != nil {
		p.watcher.Close()
	}
}

func (p *Provider) list(ctx context.Context) ([]domain.AppInfo, error) {
	p.mu.RLock()
	if p.scanned {
		cache := p.cache
		p.mu.RUnlock()
		return cache, nil
	}
	p.mu.RUnlock()

	apps, err := p.scanDirs(ctx)
	if err != nil {
		return nil, err
	}

	// Replace, never mutate in place: a concurrent reader holding the old
	// slice sees a consistent stale list until it re-reads.
	p.mu.Lock()
	p.cache = apps
	p.scanned = true
	p.mu.Unlock()

	p.log.Infow("application cache populated", "count", len(apps))
	return apps, nil
}

func (p *Provider) scanDirs(ctx context.Context) ([]domain.AppInfo, error) {
	var apps []domain.AppInfo
	for _, dir := range p.dirs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			// Missing directories are normal across platforms
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !isLaunchable(name) {
				continue
			}
			apps = append(apps, domain.AppInfo{
				Name: displayName(name),
				Path: filepath.Join(dir, name),
			})
		}
	}
	return apps, nil
}

func (p *Provider) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.log.Warnw("application watcher unavailable", "error", err)
		return
	}
	p.watcher = watcher

	for _, dir := range p.dirs {
		if err := watcher.Add(dir); err != nil {
			p.log.Debugw("not watching app directory", "dir", dir, "error", err)
		}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					p.invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warnw("application watcher error", "error", err)
			}
		}
	}()
}

func (p *Provider) invalidate() {
	p.mu.Lock()
	p.scanned = false
	p.mu.Unlock()
	p.log.Debugw("application cache invalidated")
}

func isLaunchable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".desktop", ".lnk", ".exe", ".app":
		return true
	}
	return false
}

func displayName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
