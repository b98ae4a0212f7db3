package timeutil

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errEmptyExpr = &apperr.Error{
		Message: "a date expression is required",
		Kind:    apperr.KindInvalid,
	}

	errInvalidExpr = &apperr.Error{
		Message: "unable to parse date expression %q",
		Kind:    apperr.KindInvalid,
	}
)
