package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
	"quickdash/internal/sources"
	"quickdash/internal/sources/history"
	"quickdash/internal/sources/plugins"
)

// Launcher activates a selected result: opens it with the platform
// opener, records usage, and asks the window to hide.
type Launcher struct {
	log     *zap.SugaredLogger
	bus     eventbus.EventBus
	history *history.Store
	plugins *plugins.Registry
	disk    sources.DiskSearcher
}

// New creates a launcher. disk may be nil.
func New(log *zap.SugaredLogger, bus eventbus.EventBus, hist *history.Store, reg *plugins.Registry, disk sources.DiskSearcher) *Launcher {
	return &Launcher{
		log:     log,
		bus:     bus,
		history: hist,
		plugins: reg,
		disk:    disk,
	}
}

// Launch activates the result. query is the committed query the result
// was produced for; plugins receive it as their execution context.
func (l *Launcher) Launch(ctx context.Context, result domain.SearchResult, query string) error {
	l.bus.Publish(domain.LaunchRequestedEvent{Result: result})

	var err error
	switch result.Kind {
	case domain.KindApp, domain.KindShortcut, domain.KindSystemFolder:
		err = openPath(result.Path)

	case domain.KindFile:
		if err = openPath(result.Path); err == nil && l.history != nil {
			if herr := l.history.Add(ctx, result.Path); herr != nil {
				l.log.Warnw("failed to touch file history", "path", result.Path, "error", herr)
			}
		}

	case domain.KindEverything:
		if l.disk == nil {
			err = fmt.Errorf("disk search disabled")
		} else {
			err = l.disk.Launch(ctx, result.Path)
		}
		if err == nil && l.history != nil {
			if herr := l.history.Add(ctx, result.Path); herr != nil {
				l.log.Warnw("failed to touch file history", "path", result.Path, "error", herr)
			}
		}

	case domain.KindURL, domain.KindSearchEngine:
		err = openPath(result.URL)

	case domain.KindPlugin:
		err = l.plugins.Execute(ctx, result.PluginID, query)

	case domain.KindMemo:
		err = clipboard.WriteAll(result.Description)

	default:
		err = fmt.Errorf("cannot launch result of kind %q", result.Kind)
	}

	if err != nil {
		l.log.Warnw("launch failed", "kind", result.Kind, "path", result.Path, "error", err)
		return err
	}

	l.recordUsage(ctx, result.Path)
	l.bus.Publish(domain.HideRequestedEvent{})
	return nil
}

// Reveal shows the result in its containing folder
func (l *Launcher) Reveal(ctx context.Context, result domain.SearchResult) error {
	if result.Kind == domain.KindEverything && l.disk != nil {
		return l.disk.Reveal(ctx, result.Path)
	}
	return openPath(filepath.Dir(result.Path))
}

// Hide asks the launcher window to hide without launching anything
func (l *Launcher) Hide() {
	l.bus.Publish(domain.HideRequestedEvent{})
}

func (l *Launcher) recordUsage(ctx context.Context, path string) {
	if l.history == nil {
		return
	}
	if err := l.history.RecordLaunch(ctx, path); err != nil {
		l.log.Warnw("failed to record usage", "path", path, "error", err)
		return
	}
	l.bus.Publish(domain.UsageRecordedEvent{Path: path})
}

func openPath(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %q: %w", target, err)
	}
	go cmd.Wait()
	return nil
}
