package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/studypath-api/internal/dto"
)

var (
	// ErrInvalidInput marks a request rejected before any write.
	ErrInvalidInput = errors.New("validation failed")
	// ErrUnsupportedFile is returned for uploads that are not JSON documents.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ValidationError carries user-correctable problems. Nothing was written.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), e.Errors[0])
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ImportError reports the weekly goal insert that stopped an import. Rows
// written before it remain persisted and are counted in Outcome.
type ImportError struct {
	Week    string
	Err     error
	Outcome dto.ImportOutcome
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("Failed to create week %s: %v", e.Week, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
