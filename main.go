package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"quickdash/internal/config"
	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
	"quickdash/internal/launcher"
	"quickdash/internal/logging"
	"quickdash/internal/search"
	"quickdash/internal/sources"
	"quickdash/internal/sources/apps"
	"quickdash/internal/sources/detect"
	"quickdash/internal/sources/engines"
	"quickdash/internal/sources/everything"
	"quickdash/internal/sources/folders"
	"quickdash/internal/sources/history"
	"quickdash/internal/sources/plugins"
	"quickdash/internal/sources/shortcuts"
	"quickdash/internal/ui"
)

func main() {
	var configPath string
	var debug bool
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	configSvc := config.NewConfigService()
	cfg, err := loadConfig(configSvc, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if debug {
		cfg.Debug = true
	}

	logger, err := logging.NewLogger(cfg.DataDir, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	bus := eventbus.New(log)

	var hist *history.Store
	if cfg.Sources.FileHistory {
		hist, err = history.New(log, filepath.Join(cfg.DataDir, "history.db"))
		if err != nil {
			log.Errorw("failed to open history store", "error", err)
		} else {
			defer hist.Close()
		}
	}

	var disk sources.DiskSearcher
	if cfg.Sources.DiskSearch {
		disk = everything.New(log, cfg.Disk.Endpoint, cfg.DiskTimeout())
	}

	registry := plugins.NewRegistry()
	launch := launcher.New(log, bus, hist, registry, disk)

	coord := search.NewCoordinator(ctx, log, bus, disk)
	registerSources(log, cfg, coord, hist, registry)

	model := ui.NewModel(ctx, log, bus, cfg, coord, launch, hist)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Forward every domain event the UI cares about into the program loop
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, eventType := range []eventbus.EventType{
		domain.EventQueryCommitted,
		domain.EventQueryCleared,
		domain.EventSourceResults,
		domain.EventSourceFailed,
		domain.EventDiskBatch,
		domain.EventDiskFinalized,
		domain.EventAvailabilityChanged,
		domain.EventUsageRecorded,
		domain.EventHideRequested,
	} {
		bus.Subscribe(eventType, forward)
	}

	log.Infow("starting", "data_dir", cfg.DataDir, "disk_search", disk != nil)
	if _, err := p.Run(); err != nil {
		log.Errorw("program failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(svc config.ConfigService, path string) (*config.Config, error) {
	if path != "" {
		return svc.LoadFromPath(path)
	}
	return svc.Load()
}

// registerSources wires every enabled source into the coordinator. The
// detector owns two result kinds; everything else owns its own.
func registerSources(
	log *zap.SugaredLogger,
	cfg *config.Config,
	coord *search.Coordinator,
	hist *history.Store,
	registry *plugins.Registry,
) {
	if cfg.Sources.Apps {
		coord.Register(apps.New(log, cfg.AppDirs))
	}
	if hist != nil {
		coord.Register(hist)
	}
	if cfg.Sources.Folders {
		coord.Register(folders.New())
	}
	if cfg.Sources.Shortcuts {
		store, err := shortcuts.New(cfg.DataDir)
		if err != nil {
			log.Warnw("failed to open shortcuts store", "error", err)
		} else {
			coord.Register(store)
		}
	}
	if cfg.Sources.Plugins {
		coord.Register(registry)
	}
	if cfg.Sources.Detectors {
		coord.Register(detect.New(), domain.KindURL, domain.KindMemo)
	}
	coord.Register(engines.New(nil))
}
