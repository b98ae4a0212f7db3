// Package config loads tl's configuration from the config file and command
// line flags
package config

import (
	"fmt"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Storage       StorageConfig      `mapstructure:"storage"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		Log           LogConfig          `mapstructure:"log"`
		PathToConfig  string             `mapstructure:"-"`
		Display       DisplayConfig      `mapstructure:"display"`
		Notifications NotificationConfig `mapstructure:"notifications"`
	}

	// StorageConfig selects the database driver and file.
	StorageConfig struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}

	// SettingsConfig holds general behaviour settings.
	SettingsConfig struct {
		DefaultCategory string `mapstructure:"default_category"`
		StopCmd         string `mapstructure:"stop_cmd"`
	}

	// NotificationConfig holds notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		TwentyFourHour bool `mapstructure:"24hr_clock"`
		DarkTheme      bool `mapstructure:"dark_theme"`
	}

	// LogConfig holds settings for the log file.
	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

// TimeFormat returns the clock layout selected by the display settings.
func (c *Config) TimeFormat() string {
	if c.Display.TwentyFourHour {
		return "15:04:05"
	}

	return "03:04:05 PM"
}

// New creates a new Config, applies the options in order and validates the
// result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", errConfigOption, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
