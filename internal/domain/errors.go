package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")

	// Import normalization failures (all are validation failures, but the
	// caller distinguishes them for user-facing messages)
	ErrEmptyPayload  = errors.New("empty payload")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidShape  = errors.New("invalid shape")
)

// The import sentinels do not match ErrValidation under errors.Is; they are
// surfaced as-is and the handler layer maps all of them to 400.

// ConflictError indicates that on-disk or stored state no longer matches
// what an operation expected (e.g. the file an undo entry wants to restore
// has been moved again). It is a reported, non-fatal failure.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, rule, log, undo)
	ResourceID   string // ID of the conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// TransportError wraps a failure of the external command surface (the
// engine process, IPC, network). The opaque cause is preserved as a message.
type TransportError struct {
	Message string
	Cause   error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *TransportError) Unwrap() error {
	return e.Cause
}
