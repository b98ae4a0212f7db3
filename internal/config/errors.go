package config

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
		Kind:    apperr.KindInvalid,
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown storage driver %q: must be one of %s",
		Kind:    apperr.KindInvalid,
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "invalid log level %q: must be one of debug, info, warn or error",
		Kind:    apperr.KindInvalid,
	}

	errInvalidStopCmd = &apperr.Error{
		Message: "unable to parse settings.stop_cmd",
		Kind:    apperr.KindInvalid,
	}
)
