package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version  int      `toml:"version"`
	DataDir  string   `toml:"data_dir"`
	AppDirs  []string `toml:"app_dirs"` // directories scanned for applications
	Debug    bool     `toml:"debug"`
	Search   Search   `toml:"search"`
	Sources  Sources  `toml:"sources"`
	Disk     Disk     `toml:"disk_search"`
}

// Search holds tunables for the merge pipeline
type Search struct {
	DebounceMS         int `toml:"debounce_ms"`
	WindowBase         int `toml:"window_base"`          // initial display window capacity
	WindowIncrement    int `toml:"window_increment"`     // growth per scroll-near-bottom
	ScrollThresholdRows int `toml:"scroll_threshold_rows"`
	FileHistoryCap     int `toml:"file_history_cap"`
	SystemFolderCap    int `toml:"system_folder_cap"`
	MemoCap            int `toml:"memo_cap"`
	SuggestionCap      int `toml:"suggestion_cap"`
}

// Sources toggles individual search sources
type Sources struct {
	Apps        bool `toml:"apps"`
	FileHistory bool `toml:"file_history"`
	DiskSearch  bool `toml:"disk_search"`
	Folders     bool `toml:"folders"`
	Plugins     bool `toml:"plugins"`
	Shortcuts   bool `toml:"shortcuts"`
	Detectors   bool `toml:"detectors"`
}

// Disk configures the external disk-index search backend
type Disk struct {
	Endpoint  string `toml:"endpoint"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	quickdashDir := filepath.Join(configDir, "quickdash")
	os.MkdirAll(quickdashDir, 0755)

	return &configService{
		filePath: filepath.Join(quickdashDir, "config.toml"),
	}
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DebounceDelay returns the configured debounce window as a duration
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// DiskTimeout returns the configured disk-search request timeout
func (c *Config) DiskTimeout() time.Duration {
	return time.Duration(c.Disk.TimeoutMS) * time.Millisecond
}

// applyDefaults fills zero values left by a sparse config file
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Search.DebounceMS <= 0 {
		c.Search.DebounceMS = d.Search.DebounceMS
	}
	if c.Search.WindowBase <= 0 {
		c.Search.WindowBase = d.Search.WindowBase
	}
	if c.Search.WindowIncrement <= 0 {
		c.Search.WindowIncrement = d.Search.WindowIncrement
	}
	if c.Search.ScrollThresholdRows <= 0 {
		c.Search.ScrollThresholdRows = d.Search.ScrollThresholdRows
	}
	if c.Search.FileHistoryCap <= 0 {
		c.Search.FileHistoryCap = d.Search.FileHistoryCap
	}
	if c.Search.SystemFolderCap <= 0 {
		c.Search.SystemFolderCap = d.Search.SystemFolderCap
	}
	if c.Search.MemoCap <= 0 {
		c.Search.MemoCap = d.Search.MemoCap
	}
	if c.Search.SuggestionCap <= 0 {
		c.Search.SuggestionCap = d.Search.SuggestionCap
	}
	if c.Disk.Endpoint == "" {
		c.Disk.Endpoint = d.Disk.Endpoint
	}
	if c.Disk.TimeoutMS <= 0 {
		c.Disk.TimeoutMS = d.Disk.TimeoutMS
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = "."
	}
	dataDir = filepath.Join(dataDir, "quickdash")

	return &Config{
		Version: 1,
		DataDir: dataDir,
		AppDirs: defaultAppDirs(),
		Search: Search{
			DebounceMS:          300,
			WindowBase:          500,
			WindowIncrement:     500,
			ScrollThresholdRows: 5,
			FileHistoryCap:      50,
			SystemFolderCap:     20,
			MemoCap:             20,
			SuggestionCap:       10,
		},
		Sources: Sources{
			Apps:        true,
			FileHistory: true,
			DiskSearch:  true,
			Folders:     true,
			Plugins:     true,
			Shortcuts:   true,
			Detectors:   true,
		},
		Disk: Disk{
			Endpoint:  "http://127.0.0.1:8892",
			TimeoutMS: 10000,
		},
	}
}

func defaultAppDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "applications"),
			filepath.Join(home, "Desktop"),
		)
	}
	dirs = append(dirs, "/usr/share/applications", "/usr/local/share/applications")
	return dirs
}
