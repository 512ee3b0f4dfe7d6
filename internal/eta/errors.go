package eta

import (
	"errors"
	"fmt"
)

var (
	// ErrNotObject is returned when a payload is not a JSON object.
	ErrNotObject = errors.New("payload is not a JSON object")

	// ErrNestedDocument is returned (as Document.NestedErr) when the embedded
	// document is present but unreadable.
	ErrNestedDocument = errors.New("embedded document is unreadable")
)

// ParseError wraps raw payload parsing failures.
type ParseError struct {
	// Op is the operation that failed (e.g., "Parse", "decodeNested").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("eta: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("eta: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements error matching.
func (e *ParseError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewParseError creates a ParseError.
func NewParseError(op string, err error, details string) *ParseError {
	return &ParseError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
