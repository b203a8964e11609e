// Package errors defines the structured error taxonomy shared by the
// dashboard services, the HTTP layer and the metrics classifier.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotAuthenticated indicates the caller has no valid session.
	ErrCodeNotAuthenticated ErrorCode = "not_authenticated"
	// ErrCodeUnauthorized indicates the session lacks the admin capability.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeNoSession indicates a backend call was attempted without a session.
	ErrCodeNoSession ErrorCode = "no_session"
	// ErrCodeFetchFailed indicates a backend read failed.
	ErrCodeFetchFailed ErrorCode = "fetch_failed"
	// ErrCodeMutationFailed indicates a backend write failed.
	ErrCodeMutationFailed ErrorCode = "mutation_failed"
	// ErrCodeUnknownSection indicates navigation to an unregistered section.
	ErrCodeUnknownSection ErrorCode = "unknown_section"
	// ErrCodeForbidden indicates the role may not perform the operation.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNotFound indicates a record was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError carries a code, a human-readable message and an optional cause.
// It unwraps to its cause for errors.Is and errors.As.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input for validation errors.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotAuthenticated reports a missing or expired session.
func NotAuthenticated(message string) *AppError {
	return New(ErrCodeNotAuthenticated, message)
}

// Unauthorized reports a session without the admin capability.
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// NoSession reports a backend call attempted without a session.
func NoSession(message string) *AppError {
	return New(ErrCodeNoSession, message)
}

// UnknownSection reports an unregistered section identifier.
func UnknownSection(id string) *AppError {
	return &AppError{Code: ErrCodeUnknownSection, Message: fmt.Sprintf("unknown section %q", id), Field: "section"}
}

// Forbidden reports an operation the role may not perform.
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return Newf(ErrCodeNotFound, format, args...)
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// Wrap wraps err with an AppError, preserving the cause. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps err with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// FetchFailed wraps a backend read failure.
func FetchFailed(err error, resource string) *AppError {
	return Wrapf(err, ErrCodeFetchFailed, "fetch %s", resource)
}

// MutationFailed wraps a backend write failure.
func MutationFailed(err error, op string) *AppError {
	return Wrapf(err, ErrCodeMutationFailed, "mutation %s", op)
}

// isCode reports whether any AppError in the chain carries code.
func isCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

func IsNotAuthenticated(err error) bool { return isCode(err, ErrCodeNotAuthenticated) }
func IsUnauthorized(err error) bool     { return isCode(err, ErrCodeUnauthorized) }
func IsNoSession(err error) bool        { return isCode(err, ErrCodeNoSession) }
func IsFetchFailed(err error) bool      { return isCode(err, ErrCodeFetchFailed) }
func IsMutationFailed(err error) bool   { return isCode(err, ErrCodeMutationFailed) }
func IsUnknownSection(err error) bool   { return isCode(err, ErrCodeUnknownSection) }
func IsForbidden(err error) bool        { return isCode(err, ErrCodeForbidden) }
func IsNotFound(err error) bool         { return isCode(err, ErrCodeNotFound) }
func IsValidation(err error) bool       { return isCode(err, ErrCodeValidation) }
func IsInternal(err error) bool         { return isCode(err, ErrCodeInternal) }
func IsCanceled(err error) bool         { return isCode(err, ErrCodeCanceled) }

// GetCode returns the outermost ErrorCode, or "" if err carries no AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the outermost AppError, or "".
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
