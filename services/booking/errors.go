package booking

import "fmt"

// Error codes surfaced by the booking service. Handlers map these onto HTTP
// statuses.
const (
	CodeNotFound           = "notFound"
	CodeUnauthorized       = "unauthorized"
	CodeValidation         = "validationFailed"
	CodeCapabilityMismatch = "capabilityMismatch"
	CodeInvalidTransition  = "invalidTransition"
	CodeConflict           = "conflict"
)

// Error is a terminal, user-visible booking failure.
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

func NewCapabilityMismatchError(msg string) error {
	return &Error{Code: CodeCapabilityMismatch, Message: msg}
}

func NewInvalidTransitionError(msg string) error {
	return &Error{Code: CodeInvalidTransition, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}
