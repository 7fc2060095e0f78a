// Package apperror defines the error kinds returned by the service layer and
// how each one maps to an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Conflict
	NotFound
	InvalidCredentials
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case InvalidCredentials:
		return "invalid_credentials"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError carries a client-facing Message and the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
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

// StatusCode maps the kind to a response status. Every client-caused auth
// failure is a 400, matching the public API contract.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case Validation, Conflict, NotFound, InvalidCredentials:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidationError(message string, err error) *AppError {
	return New(Validation, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(Conflict, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFound, message, err)
}

func NewInvalidCredentialsError(message string, err error) *AppError {
	return New(InvalidCredentials, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return New(Unauthorized, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(Internal, message, err)
}

// From returns the AppError in err's chain, or wraps err as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error", err)
}

// KindOf returns the kind of err, Internal when err is not an AppError.
func KindOf(err error) Kind {
	return From(err).Kind
}

func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
