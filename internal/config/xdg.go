// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "learnhub"

// EnvDBPath names the environment variable that overrides the database path.
const EnvDBPath = "LEARNHUB_DB"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the SQLite database path, honoring LEARNHUB_DB.
func DefaultDBPath() string {
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appDir, "learnhub.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultBackupPath returns where backups are written when no path is given.
func DefaultBackupPath() string {
	return filepath.Join(XDGDataHome(), appDir, "learnhub-backup.json.br")
}
