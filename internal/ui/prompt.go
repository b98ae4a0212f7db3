package ui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/raminsharifi/time-logging/internal/apperr"
)

// Prompter asks questions on the terminal with huh forms.
type Prompter struct {
	// Accessible replaces the interactive widgets with plain line prompts,
	// for screen readers and terminals without cursor control.
	Accessible bool
}

func (p *Prompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return apperr.ErrUserAborted
	}

	return err
}

// Confirm asks a yes/no question. No is the default.
func (p *Prompter) Confirm(title string) (bool, error) {
	var ok bool

	err := p.run(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)

	return ok, err
}

// Select asks the user to pick one of options and returns its index. The
// cursor starts on options[def].
func (p *Prompter) Select(title string, options []string, def int) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}

	idx := def

	err := p.run(
		huh.NewSelect[int]().
			Title(title).
			Options(opts...).
			Value(&idx),
	)

	return idx, err
}

// Input reads a line of text. The answer starts out as def.
func (p *Prompter) Input(title, def string) (string, error) {
	value := def

	err := p.run(
		huh.NewInput().
			Title(title).
			Value(&value),
	)

	return value, err
}
