package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation clashes with the current state of
// another entity (occupied slot, wrong lifecycle status, missing relation).
var ErrConflict = errors.New("conflicting state")

// ErrInsufficientFunds indicates an account balance too low to cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrForbidden indicates the acting user may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConsistency indicates a multi-entity atomic unit that could not commit.
// The operation failed cleanly; no partial effects were applied.
var ErrConsistency = errors.New("consistency failure")

// AppError wraps an underlying error with an HTTP-ish status code and a
// caller-facing message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
