package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("invalid authentication credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access denied to this todo")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError describes malformed input. It matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Msg string
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
