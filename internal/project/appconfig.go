// Package project persists user settings, custom sheet presets, design
// templates and pipeline config files.
package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/parasys/internal/model"
)

// DefaultConfigDir returns the application directory, ~/.parasys on every platform.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".parasys")
}

// DefaultConfigPath is ~/.parasys/config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes config as indented JSON, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads the preferences at path. A missing file yields
// DefaultAppConfig; keys absent from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if err := readJSON(path, "app config", &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
