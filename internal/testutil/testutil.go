package testutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"
)

var errScriptExhausted = errors.New("prompter script exhausted")

// Prompter answers prompts from a fixed script. A test fails if a prompt is
// issued that the script has no answer for.
type Prompter struct {
	T        *testing.T
	Confirms []bool
	Selects  []int
	Inputs   []string

	// Titles records every prompt title in the order it was shown.
	Titles []string

	// Options records the options passed to each Select call.
	Options [][]string

	// Defaults records the preselected index of each Select call.
	Defaults []int
}

func (p *Prompter) fail(kind, title string) error {
	if p.T != nil {
		p.T.Helper()
		p.T.Errorf("unexpected %s prompt: %q", kind, title)
	}

	return fmt.Errorf("%s %q: %w", kind, title, errScriptExhausted)
}

func (p *Prompter) Confirm(title string) (bool, error) {
	p.Titles = append(p.Titles, title)

	if len(p.Confirms) == 0 {
		return false, p.fail("confirm", title)
	}

	v := p.Confirms[0]
	p.Confirms = p.Confirms[1:]

	return v, nil
}

func (p *Prompter) Select(title string, options []string, def int) (int, error) {
	p.Titles = append(p.Titles, title)
	p.Options = append(p.Options, options)
	p.Defaults = append(p.Defaults, def)

	if len(p.Selects) == 0 {
		return 0, p.fail("select", title)
	}

	v := p.Selects[0]
	p.Selects = p.Selects[1:]

	return v, nil
}

func (p *Prompter) Input(title, def string) (string, error) {
	p.Titles = append(p.Titles, title)

	if len(p.Inputs) == 0 {
		return "", p.fail("input", title)
	}

	v := p.Inputs[0]
	p.Inputs = p.Inputs[1:]

	if v == "" {
		return def, nil
	}

	return v, nil
}

// Clock is a settable clock for tests.
type Clock struct {
	Current time.Time
}

// NewClock returns a clock fixed at the given epoch second.
func NewClock(unix int64) *Clock {
	return &Clock{Current: time.Unix(unix, 0)}
}

func (c *Clock) Now() time.Time {
	return c.Current
}

// Set moves the clock to the given epoch second.
func (c *Clock) Set(unix int64) {
	c.Current = time.Unix(unix, 0)
}

func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}
