package errors

import "fmt"

// ErrorCode represents a strategist error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrMalformedInput ErrorCode = "MALFORMED_INPUT" // 400 (import shape check)
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrQuotaExceeded  ErrorCode = "QUOTA_EXCEEDED"  // 413
	ErrTransientWrite ErrorCode = "TRANSIENT_WRITE" // 503
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// StudioError represents a structured error with code, status, and details.
type StudioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StudioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StudioError {
	return &StudioError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMalformedInput creates a 400 error for an import document that fails the
// shape check. The document is rejected before any storage mutation.
func NewMalformedInput(msg string) *StudioError {
	return &StudioError{
		Code:    ErrMalformedInput,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(identifier string) *StudioError {
	return &StudioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("project not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewQuotaExceeded creates a 413 error when a storage write exceeds the quota.
// The message carries the guidance the failure contract requires: local
// storage is lossy for large media, exporting to a file is the durable path.
func NewQuotaExceeded(limit, attempted int64) *StudioError {
	return &StudioError{
		Code:    ErrQuotaExceeded,
		Status:  413,
		Message: "storage quota exceeded; export the project to a JSON file instead of relying on local storage",
		Details: map[string]any{"quota_bytes": limit, "attempted_bytes": attempted},
	}
}

// NewTransientWrite creates a 503 error for storage failures that are neither
// quota nor corruption. Callers at the orchestrator level log and swallow it.
func NewTransientWrite(err error) *StudioError {
	msg := "storage write failed"
	if err != nil {
		msg = err.Error()
	}
	return &StudioError{
		Code:    ErrTransientWrite,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StudioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StudioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StudioError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StudioError); ok {
		return sErr.Code == code
	}
	return false
}
