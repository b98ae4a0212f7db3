package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	driverFlag = &cli.StringFlag{
		Name:  "driver",
		Usage: "Storage driver to use: bolt or sqlite (overrides storage.driver)",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the database file (overrides storage.path)",
	}

	categoryFlag = &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"c"},
		Usage:   "Category used when the category prompt is left empty",
	}

	stopCmdFlag = &cli.StringFlag{
		Name:    "stop-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after a timer is stopped",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a timer is stopped",
	}

	accessibleFlag = &cli.BoolFlag{
		Name:    "accessible",
		Usage:   "Use plain line prompts instead of interactive widgets",
		EnvVars: []string{"TL_ACCESSIBLE"},
	}

	todayFlag = &cli.BoolFlag{
		Name:  "today",
		Usage: "Show only entries started today",
	}

	weekFlag = &cli.BoolFlag{
		Name:  "week",
		Usage: "Show entries from the last 7 days",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Show entries started after a point in time (e.g. 'yesterday', '3 days ago', '2026-01-02')",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}
)
