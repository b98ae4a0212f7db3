package main

import (
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/raminsharifi/time-logging/app"
	"github.com/raminsharifi/time-logging/internal/osutil"
)

// run executes tl with args and reports any failure on stderr.
func run(args []string, stderr io.Writer) error {
	err := app.Get().Run(args)
	if err != nil {
		pterm.Error.WithWriter(stderr).Println(err)
	}

	return err
}

func main() {
	if err := run(os.Args, os.Stderr); err != nil {
		os.Exit(int(osutil.ExitError))
	}
}
