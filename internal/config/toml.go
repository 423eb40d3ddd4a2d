// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	App    AppConfig    `toml:"app"`
	Player PlayerConfig `toml:"player"`
}

// AppConfig maps application-wide settings.
type AppConfig struct {
	LoginDelay        *string `toml:"login-delay"`
	Theme             *string `toml:"theme"`
	RequireEnrollment *bool   `toml:"require-enrollment"`
}

// PlayerConfig maps lesson player settings.
type PlayerConfig struct {
	SampleInterval *string `toml:"sample-interval"`
	LessonSeconds  *int    `toml:"lesson-seconds"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
