package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/tickdown/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("owner", c.Owner, notEmpty),
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("theme", c.Theme, knownTheme),
		c.validateDurations(),
		c.validateDocumentPatterns(),
		c.validateDatabase(),
	)
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility. The configPath argument specifies the config
// file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if len(c.Documents) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Documents",
			Message:  "no documents configured; watch has nothing to sync",
		})
	}

	for i, pattern := range c.DocumentPatterns() {
		if !doublestar.ValidatePattern(pattern) {
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil || len(matches) == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Documents",
				Item:     fmt.Sprintf("documents[%d]", i),
				Message:  fmt.Sprintf("%q matches no files", c.Documents[i]),
			})
		}
	}

	if c.Sync.QuietPeriod < c.Sync.Debounce {
		warnings = append(warnings, ValidationWarning{
			Category: "Sync",
			Item:     "sync.quiet_period",
			Message:  "shorter than sync.debounce; rewrites may race pending edits",
		})
	}

	return warnings
}

func (c *Config) validateDurations() error {
	var errs criterio.FieldErrorsBuilder
	check := func(field string, d time.Duration, fn func(time.Duration) error) {
		if err := fn(d); err != nil {
			errs = errs.Append(field, err)
		}
	}

	check("timer.duration", c.Timer.Duration, positive)
	check("timer.sweep_interval", c.Timer.SweepInterval, positive)
	check("sync.quiet_period", c.Sync.QuietPeriod, notNegative)
	check("sync.debounce", c.Sync.Debounce, positive)
	check("sync.interval", c.Sync.Interval, positive)

	return errs.ToError()
}

func (c *Config) validateDocumentPatterns() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.DocumentPatterns() {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("documents[%d]", i), fmt.Errorf("invalid glob %q", c.Documents[i]))
		}
	}
	return errs.ToError()
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", errors.New("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", errors.New("must not be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", errors.New("must not be negative"))
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func notNegative(d time.Duration) error {
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
