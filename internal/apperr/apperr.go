// Package apperr defines the error type returned across tl. Errors are
// declared once as message templates and specialised with Fmt or Wrap at the
// call site, so that errors.Is still matches the declared value.
package apperr

import (
	"errors"
	"fmt"
)

// ErrUserAborted is returned by prompts the user cancelled. Operations treat it
// as an abort with no changes rather than a failure.
var ErrUserAborted = errors.New("aborted by user")

// Kind classifies an error for reporting and exit codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a templated application error.
type Error struct {
	Cause   error
	Message string
	Kind    Kind
	args    []any
	tmpl    *Error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.args) > 0 {
		msg = fmt.Sprintf(e.Message, e.args...)
	}

	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}

	return msg
}

// Fmt returns a copy of the error with the message template filled in.
func (e *Error) Fmt(args ...any) *Error {
	cp := *e
	cp.args = args
	cp.tmpl = e.root()

	return &cp
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Cause = err
	cp.tmpl = e.root()

	return &cp
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the declared error this one was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.tmpl != nil {
		return e.tmpl
	}

	return e
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindUnknown
}
