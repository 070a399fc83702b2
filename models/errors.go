package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for propagation policy: client-caused kinds
// surface with a 4xx status and a readable message, server-caused kinds are
// logged with context and returned opaque.
type ErrorKind string

const (
	ErrInvalidLocation   ErrorKind = "InvalidLocation"
	ErrNotFound          ErrorKind = "NotFound"
	ErrIllegalTransition ErrorKind = "IllegalTransition"
	ErrForbidden         ErrorKind = "Forbidden"
	ErrValidation        ErrorKind = "ValidationError"
	ErrTimeout           ErrorKind = "Timeout"
	ErrInternal          ErrorKind = "Internal"
)

// AppError is the service-layer error carrying its kind. Controllers map the
// kind to an HTTP status; the wrapped cause never leaks to clients for
// server-caused kinds.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError with a formatted message.
func NewAppError(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying cause.
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the error kind, defaulting to Internal for unclassified
// errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// ClientMessage returns the message safe to show a caller. Server-caused
// kinds get an opaque message regardless of the underlying detail.
func ClientMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	switch appErr.Kind {
	case ErrInternal:
		return "internal server error"
	case ErrTimeout:
		return "request timed out"
	default:
		return appErr.Message
	}
}
