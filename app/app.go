package app

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/raminsharifi/time-logging/internal/config"
)

// Get retrieves the tl app instance.
func Get() *cli.App {
	s := &state{
		out: os.Stdout,
		now: time.Now,
	}

	tlApp := &cli.App{
		Name: "tl",
		Usage: `
		tl tracks the time you spend on activities from the command-line. Timers
		can be paused, resumed and switched between, breaks are recorded, and
		each timer may be linked to a todo.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start a new timer, pausing the running one",
				Action: s.startAction,
			},
			{
				Name:   "stop",
				Usage:  "Stop the running timer and add it to the log",
				Action: s.stopAction,
			},
			{
				Name:   "pause",
				Usage:  "Pause the running timer",
				Action: s.pauseAction,
			},
			{
				Name:   "resume",
				Usage:  "Resume a paused timer",
				Action: s.resumeAction,
			},
			{
				Name:   "switch",
				Usage:  "Pause the running timer and resume another one",
				Action: s.switchAction,
			},
			{
				Name:   "status",
				Usage:  "Print every active timer",
				Flags:  []cli.Flag{jsonFlag},
				Action: s.statusAction,
			},
			{
				Name:  "log",
				Usage: "List stopped timers",
				Flags: []cli.Flag{
					todayFlag,
					weekFlag,
					sinceFlag,
					jsonFlag,
				},
				Action: s.logAction,
				Subcommands: []*cli.Command{
					{
						Name:      "rm",
						Usage:     "Delete a log entry",
						ArgsUsage: "<id>",
						Action:    s.logRmAction,
					},
				},
			},
			{
				Name:  "todo",
				Usage: "Manage todos",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Add a todo",
						ArgsUsage: "<text>",
						Action:    s.todoAddAction,
					},
					{
						Name:   "list",
						Usage:  "List todos with the time tracked against them",
						Flags:  []cli.Flag{jsonFlag},
						Action: s.todoListAction,
					},
					{
						Name:      "done",
						Usage:     "Mark a todo as done",
						ArgsUsage: "<id>",
						Action:    s.todoDoneAction,
					},
					{
						Name:      "rm",
						Usage:     "Remove a todo",
						ArgsUsage: "<id>",
						Action:    s.todoRmAction,
					},
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: s.editConfigAction,
			},
		},
		Flags: []cli.Flag{
			driverFlag,
			dbFlag,
			categoryFlag,
			stopCmdFlag,
			disableNotificationFlag,
			accessibleFlag,
			noColorFlag,
		},
		Before: s.beforeAction,
		After:  s.afterAction,
	}

	return tlApp
}
