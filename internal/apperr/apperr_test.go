package apperr

import (
	"errors"
	"fmt"
	"testing"
)

var errMissing = &Error{
	Message: "todo #%d not found",
	Kind:    KindNotFound,
}

func TestFmtMatchesDeclaredError(t *testing.T) {
	err := errMissing.Fmt(3)

	if got, want := err.Error(), "todo #3 not found"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, errMissing) {
		t.Fatal("expected formatted error to match its template")
	}

	wrapped := fmt.Errorf("rm: %w", err)
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected kind %v, got %v", KindNotFound, KindOf(wrapped))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	storageErr := &Error{Message: "write failed", Kind: KindStorage}

	err := storageErr.Wrap(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to expose its cause")
	}

	if !errors.Is(err, storageErr) {
		t.Fatal("expected wrapped error to match its template")
	}

	if got, want := err.Error(), "write failed: disk full"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Fatal("expected unknown kind for plain errors")
	}
}
