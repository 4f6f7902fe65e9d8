package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither PDF, DOCX
	// nor plain text.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrJobDescriptionRequired is batch-fatal: nothing can be scored
	// without the shared job description.
	ErrJobDescriptionRequired = errors.New("job description is required")

	// ErrBatchNotQueued is returned when a batch was already claimed by
	// another worker or has finished.
	ErrBatchNotQueued = errors.New("batch is not queued")

	// ErrIndexDisabled is returned by search when no candidate index is
	// configured.
	ErrIndexDisabled = errors.New("candidate index is disabled")
)

// ExtractionError reports a document whose plain text could not be
// produced. It is local to that document and never aborts a batch.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s", e.Filename)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
