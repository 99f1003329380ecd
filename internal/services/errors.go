package services

import "errors"

// ErrNotFound indicates the requested record does not exist or belongs to
// another organization.
var ErrNotFound = errors.New("record not found")

// ValidationError carries a human-readable rejection reason for a bad
// request (date range, guard violation, illegal transition). Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error with the given reason
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// ConflictError indicates an availability conflict on a unit. The caller
// resolves it by choosing different dates or ending the blocking lease.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflictError creates a conflict error with the given reason
func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// IsValidationError reports whether err is a validation rejection
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflictError reports whether err is an availability conflict
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
