package store

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errTLRunning = &apperr.Error{
		Message: "is tl already running? Only one instance can use the database at a time",
		Kind:    apperr.KindStorage,
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown storage driver %q (must be bolt or sqlite)",
		Kind:    apperr.KindInvalid,
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open database at %s",
		Kind:    apperr.KindStorage,
	}

	errMigrate = &apperr.Error{
		Message: "database migration failed",
		Kind:    apperr.KindStorage,
	}

	errCorruptBreaks = &apperr.Error{
		Message: "corrupt breaks data",
		Kind:    apperr.KindStorage,
	}

	errCorruptRecord = &apperr.Error{
		Message: "corrupt %s record",
		Kind:    apperr.KindStorage,
	}

	errMissingRecord = &apperr.Error{
		Message: "%s #%d does not exist",
		Kind:    apperr.KindNotFound,
	}
)
