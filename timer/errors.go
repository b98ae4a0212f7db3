package timer

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errNoRunningTimer = &apperr.Error{
		Message: "no running timer",
		Kind:    apperr.KindNotFound,
	}

	errAlreadyRunning = &apperr.Error{
		Message: "%q is already running: pause or stop it first",
		Kind:    apperr.KindConflict,
	}

	errNoPausedTimers = &apperr.Error{
		Message: "no paused timers",
		Kind:    apperr.KindNotFound,
	}

	errEntryNotFound = &apperr.Error{
		Message: "log entry #%d not found",
		Kind:    apperr.KindNotFound,
	}

	errTimersChanged = &apperr.Error{
		Message: "active timers changed while waiting for input, please try again",
		Kind:    apperr.KindConflict,
	}

	errInvalidSelection = &apperr.Error{
		Message: "invalid selection: %d",
		Kind:    apperr.KindInvalid,
	}

	errEmptyName = &apperr.Error{
		Message: "activity name cannot be empty",
		Kind:    apperr.KindInvalid,
	}

	errEmptyCategory = &apperr.Error{
		Message: "category cannot be empty",
		Kind:    apperr.KindInvalid,
	}
)
