// Package initcmd writes a first-run tickdown configuration.
package initcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteConfig when a config file is already
// present and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// BackupConfig creates a backup of existing config before overwriting.
// Returns empty string if no backup was needed (file doesn't exist).
func BackupConfig(configPath string) (string, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return "", nil
	}

	backupPath := configPath + ".bak"

	// Remove existing backup if present
	_ = os.Remove(backupPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read existing config: %w", err)
	}

	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	return backupPath, nil
}

// ConfigExists checks if a config file exists at the given path.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return err == nil
}

// WriteConfig writes content to configPath, creating parent directories.
// An existing file is backed up first when force is set; otherwise
// ErrConfigExists is returned. The backup path is empty when none was made.
func WriteConfig(configPath, content string, force bool) (string, error) {
	var backup string
	if ConfigExists(configPath) {
		if !force {
			return "", ErrConfigExists
		}
		var err error
		backup, err = BackupConfig(configPath)
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return backup, fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return backup, fmt.Errorf("write config: %w", err)
	}

	return backup, nil
}
