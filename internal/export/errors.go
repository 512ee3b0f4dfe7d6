package export

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReturns is returned when there is nothing to export.
	ErrNoReturns = errors.New("no returns to export")

	// ErrWriteFailed is returned when an output file cannot be written.
	ErrWriteFailed = errors.New("failed to write output")
)

// ExportError wraps report export failures.
type ExportError struct {
	// Op is the operation that failed (e.g., "WriteJSON", "WriteReturn").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context, usually the target path.
	Details string
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("export: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("export: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is implements error matching.
func (e *ExportError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExportError creates an ExportError.
func NewExportError(op string, err error, details string) *ExportError {
	return &ExportError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
