package todo

import "github.com/raminsharifi/time-logging/internal/apperr"

var (
	errTodoNotFound = &apperr.Error{
		Message: "todo #%d not found",
		Kind:    apperr.KindNotFound,
	}

	errEmptyText = &apperr.Error{
		Message: "todo text cannot be empty",
		Kind:    apperr.KindInvalid,
	}
)
