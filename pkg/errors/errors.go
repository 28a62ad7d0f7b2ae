// Package errors provides structured error types for the tracker pipeline.
//
// Infrastructure adapters return these so the pipelines can tell a fatal
// failure apart from the conditions they are expected to absorb (a write
// conflict, a fetch that ran out of retries).
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

const (
	// Infrastructure errors
	CodeSecretError       ErrorCode = "SECRET_ERROR"
	CodeFetchError        ErrorCode = "FETCH_ERROR"
	CodeStorageError      ErrorCode = "STORAGE_ERROR"
	CodeStorageConflict   ErrorCode = "STORAGE_CONFLICT"
	CodeNotificationError ErrorCode = "NOTIFICATION_ERROR"
	CodeArchiveError      ErrorCode = "ARCHIVE_ERROR"

	// Data errors
	CodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// TrackerError is the base error type for all pipeline errors.
type TrackerError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *TrackerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TrackerError) Unwrap() error {
	return e.Cause
}

// Is matches on error code, so a wrapped sentinel still satisfies errors.Is.
func (e *TrackerError) Is(target error) bool {
	t, ok := target.(*TrackerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause wraps an underlying error.
func (e *TrackerError) WithCause(cause error) *TrackerError {
	return &TrackerError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *TrackerError) WithMetadata(key, value string) *TrackerError {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &TrackerError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	ErrSecretError       = &TrackerError{Code: CodeSecretError, Message: "secret access error", Retryable: true}
	ErrFetchError        = &TrackerError{Code: CodeFetchError, Message: "fetch failed", Retryable: true}
	ErrStorageError      = &TrackerError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrAlreadyExists     = &TrackerError{Code: CodeStorageConflict, Message: "record already exists", Retryable: false}
	ErrNotificationError = &TrackerError{Code: CodeNotificationError, Message: "notification error", Retryable: true}
	ErrArchiveError      = &TrackerError{Code: CodeArchiveError, Message: "archive error", Retryable: true}
	ErrInvalidPayload    = &TrackerError{Code: CodeInvalidPayload, Message: "invalid payload", Retryable: false}
	ErrValidation        = &TrackerError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal          = &TrackerError{Code: CodeInternalError, Message: "internal error", Retryable: false}
)

// New creates a new TrackerError with the given code and message.
func New(code ErrorCode, message string) *TrackerError {
	return &TrackerError{Code: code, Message: message}
}

// Wrap wraps an error with a TrackerError.
func Wrap(cause error, code ErrorCode, message string) *TrackerError {
	return &TrackerError{Code: code, Message: message, Cause: cause}
}

// WrapRetryable wraps an error with a retryable TrackerError.
func WrapRetryable(cause error, code ErrorCode, message string) *TrackerError {
	return &TrackerError{Code: code, Message: message, Cause: cause, Retryable: true}
}

// IsConflict reports whether err is the idempotent-write conflict signal.
func IsConflict(err error) bool {
	return stderrors.Is(err, ErrAlreadyExists)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var te *TrackerError
	if stderrors.As(err, &te) {
		return te.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var te *TrackerError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return CodeInternalError
}
