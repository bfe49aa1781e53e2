package domain

import "errors"

// ErrTodoNotFound is returned by stores and services when an id does not
// resolve to a todo. Handlers translate it into a 404.
var ErrTodoNotFound = errors.New("todo not found")

// ValidationError is a user-correctable input error. Message is safe to send
// to the client as-is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}
