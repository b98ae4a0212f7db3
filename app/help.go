package app

import (
	"fmt"

	"github.com/pterm/pterm"
)

func helpText() string {
	description := fmt.Sprintf(
		"%s\n\t\t{{.Usage}}\n\n",
		pterm.Yellow("DESCRIPTION"),
	)

	usage := fmt.Sprintf(
		"%s\n\t\t{{.HelpName}} {{if .UsageText}}{{ .UsageText }}{{end}}\n\n",
		pterm.Yellow("USAGE"),
	)

	version := fmt.Sprintf(
		"{{if .Version}}%s\n\t\t{{.Version}}{{end}}\n\n",
		pterm.Yellow("VERSION"),
	)

	commands := fmt.Sprintf(
		"%s\n{{range .Commands}}{{if not .HideHelp}}   %s{{ `\t`}}{{.Usage}}{{ `\n` }}{{end}}{{end}}\n\n",
		pterm.Yellow("COMMANDS"),
		pterm.Green("{{join .Names `, `}}"),
	)

	options := fmt.Sprintf(
		"%s\n{{range .VisibleFlags}}\t\t{{if .Aliases}}{{range $element := .Aliases}}%s,{{end}}{{end}} %s\n\t\t\t\t{{.Usage}}\n\n{{end}}",
		pterm.Yellow("OPTIONS"),
		pterm.Green("-{{$element}}"),
		pterm.Green("--{{.Name}} {{.DefaultText}}"),
	)

	examples := fmt.Sprintf(
		"%s\n%s\n\n",
		pterm.Yellow("EXAMPLES"),
		examplesHelp(),
	)

	env := fmt.Sprintf(
		"%s\n\t\t%s\n\n",
		pterm.Yellow("ENVIRONMENTAL VARIABLES"),
		envHelp(),
	)

	return description + usage + version + commands + options + examples + env
}

func examplesHelp() string {
	return `		tl todo add write the release notes
		tl start              # pick todo #1, then a category
		tl pause              # step away, the break is recorded
		tl resume
		tl switch             # pause the current timer and resume another
		tl stop               # log it, optionally marking the todo as done
		tl log --today
		tl log rm 3`
}

func envHelp() string {
	return `
TL_NO_COLOR, NO_COLOR: set to any value to avoid printing ANSI escape sequences for color output.

TL_ENV: keep the config, database and log files of a named environment apart (e.g. TL_ENV=test).

TL_ACCESSIBLE: set to any value to use plain line-based prompts instead of interactive forms.`
}
