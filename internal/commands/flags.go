package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/tickdown/internal/core/config"
)

// Flags holds the global flag values. Config is filled in the root Before
// hook and is nil for bootstrap commands such as init.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	Config *config.Config
}

// DefaultConfigPath is $XDG_CONFIG_HOME/tickdown/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "tickdown", "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/tickdown, which holds the database and log.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "tickdown")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}
