package app

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errMissingID = &apperr.Error{
		Message: "missing %s id",
		Kind:    apperr.KindInvalid,
	}

	errInvalidID = &apperr.Error{
		Message: "invalid id %q: expected a positive number",
		Kind:    apperr.KindInvalid,
	}

	errInvalidEditor = &apperr.Error{
		Message: "unable to parse the editor command from $VISUAL or $EDITOR",
		Kind:    apperr.KindInvalid,
	}
)
