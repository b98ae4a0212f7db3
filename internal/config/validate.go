package config

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

var drivers = []string{DriverBolt, DriverSQLite}

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverBolt
	}

	if !slices.Contains(drivers, c.Storage.Driver) {
		return errUnknownDriver.Fmt(
			c.Storage.Driver,
			strings.Join(drivers, ", "),
		)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if _, err := shellquote.Split(c.Settings.StopCmd); err != nil {
		return errInvalidStopCmd.Wrap(err)
	}

	return nil
}

// LogLevel parses the configured log level. An empty level is info.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return level, nil
}

// StopCmd splits settings.stop_cmd into a program and its arguments. It
// returns nil when no command is configured.
func (c *Config) StopCmd() []string {
	args, err := shellquote.Split(c.Settings.StopCmd)
	if err != nil || len(args) == 0 {
		return nil
	}

	return args
}
