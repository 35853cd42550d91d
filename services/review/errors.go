package review

import "fmt"

// Error codes surfaced by the review service. Handlers map these onto HTTP
// statuses.
const (
	CodeNotFound     = "notFound"
	CodeUnauthorized = "unauthorized"
	CodeValidation   = "validationFailed"
	CodeNotCompleted = "notCompleted"
	CodeDuplicate    = "duplicateReview"
)

// Error is a terminal, user-visible review failure.
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

func NewNotCompletedError(msg string) error {
	return &Error{Code: CodeNotCompleted, Message: msg}
}

func NewDuplicateError(msg string) error {
	return &Error{Code: CodeDuplicate, Message: msg}
}
