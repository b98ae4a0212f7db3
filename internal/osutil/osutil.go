// Package osutil holds platform constants shared by the tl packages.
package osutil

import (
	"os"
	"runtime"
)

const Windows = "windows"

// ExitCode is the process exit status of tl.
type ExitCode int

const ExitError ExitCode = 1

const DirPermission = 0o755

// Editor returns the program used to edit text files: $VISUAL, then $EDITOR,
// then a platform default.
func Editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	if runtime.GOOS == Windows {
		return `C:\Windows\system32\notepad.exe`
	}

	return "nano"
}
