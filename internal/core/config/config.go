// Package config handles configuration loading and validation for tickdown.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/tickdown/internal/core/styles"
	"github.com/hay-kot/tickdown/internal/core/task"
)

// Config holds the application configuration.
type Config struct {
	Owner     string         `yaml:"owner"`
	Theme     string         `yaml:"theme"`
	Timer     TimerConfig    `yaml:"timer"`
	Sync      SyncConfig     `yaml:"sync"`
	Documents []string       `yaml:"documents"`
	Database  DatabaseConfig `yaml:"database"`
	DataDir   string         `yaml:"-"` // set by caller, not from config file
	ConfigDir string         `yaml:"-"` // directory of the loaded file, for relative document paths
}

// TimerConfig controls the auto-completion window.
type TimerConfig struct {
	Duration      time.Duration `yaml:"duration"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// SyncConfig controls how watched documents are reconciled and rewritten.
type SyncConfig struct {
	// QuietPeriod is how long after the last user edit a document may be
	// rewritten with store-driven checkbox changes.
	QuietPeriod time.Duration `yaml:"quiet_period"`
	// Debounce coalesces bursts of file events before reconciling.
	Debounce time.Duration `yaml:"debounce"`
	// Interval is how often a watched document is checked for pending sync.
	Interval time.Duration `yaml:"interval"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Owner: defaultOwner(),
		Theme: styles.DefaultTheme,
		Timer: TimerConfig{
			Duration:      task.DefaultDuration,
			SweepInterval: task.DefaultSweepInterval,
		},
		Sync: SyncConfig{
			QuietPeriod: 3 * time.Second,
			Debounce:    time.Second,
			Interval:    time.Second,
		},
		Documents: []string{},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			cfg.ConfigDir = filepath.Dir(configPath)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Owner == "" {
		c.Owner = defaults.Owner
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Timer.Duration == 0 {
		c.Timer.Duration = defaults.Timer.Duration
	}
	if c.Timer.SweepInterval == 0 {
		c.Timer.SweepInterval = defaults.Timer.SweepInterval
	}
	if c.Sync.Debounce == 0 {
		c.Sync.Debounce = defaults.Sync.Debounce
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = defaults.Sync.Interval
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// TaskTimer returns the timer configured for auto-completion.
func (c *Config) TaskTimer() task.Timer {
	return task.Timer{Duration: c.Timer.Duration}
}

// DocumentPatterns returns the configured document paths with "~" expanded
// and relative entries resolved against the config file's directory.
func (c *Config) DocumentPatterns() []string {
	out := make([]string, 0, len(c.Documents))
	for _, doc := range c.Documents {
		out = append(out, c.resolvePath(doc))
	}
	return out
}

// LogFile returns the default log file location.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "tickdown.log")
}

func (c *Config) resolvePath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) && c.ConfigDir != "" {
		p = filepath.Join(c.ConfigDir, p)
	}
	return filepath.Clean(p)
}
