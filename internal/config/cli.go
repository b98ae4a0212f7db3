package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Driver        string
	DBPath        string
	Category      string
	StopCmd       string
	DisableNotify bool
}

// WithCLIConfig returns an Option that applies the global command-line
// flags on top of the config file.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Driver:        ctx.String("driver"),
			DBPath:        ctx.String("db"),
			Category:      ctx.String("category"),
			StopCmd:       ctx.String("stop-cmd"),
			DisableNotify: ctx.Bool("disable-notification"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config. Empty options leave the
// file settings in place.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Driver != "" {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(opts.Driver))
	}

	if opts.DBPath != "" {
		c.Storage.Path = opts.DBPath
	}

	if opts.Category != "" {
		c.Settings.DefaultCategory = opts.Category
	}

	if opts.StopCmd != "" {
		c.Settings.StopCmd = opts.StopCmd
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}
}
