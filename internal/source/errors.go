package source

import (
	"errors"
	"fmt"
)

// Common document source errors
var (
	// ErrNotConfigured is returned when a source is created without its
	// location (folder path, endpoint or bucket name).
	ErrNotConfigured = errors.New("document source is not configured")

	// ErrLocationNotFound is returned when the folder or bucket does not exist.
	ErrLocationNotFound = errors.New("document location does not exist")

	// ErrListFailed is returned when the documents in a location cannot be
	// enumerated.
	ErrListFailed = errors.New("failed to list documents")

	// ErrNoDocuments is returned when a location holds no JSON documents.
	ErrNoDocuments = errors.New("no JSON documents found")
)

// SourceError wraps errors with the operation and location that failed.
type SourceError struct {
	// Op is the operation that failed (e.g., "Load", "NewBucket").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context, usually the location.
	Details string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("source: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("source: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *SourceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewSourceError creates a new SourceError.
func NewSourceError(op string, err error, details string) *SourceError {
	return &SourceError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapSourceError wraps an error as a SourceError if it isn't already one.
func WrapSourceError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return err // Already wrapped
	}

	return NewSourceError(op, err, details)
}
