package provider

import "fmt"

const (
	CodeNotFound     = "notFound"
	CodeUnauthorized = "unauthorized"
	CodeValidation   = "validationFailed"
	CodeConflict     = "conflict"
)

// Error is a terminal, user-visible provider-account failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}
