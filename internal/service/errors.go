package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrDuplicateStudent  = errors.New("student with this email already exists")
	ErrMajorUnsupported  = errors.New("requirements for this major are not available")
	ErrCampusUnavailable = errors.New("campus is not available for verification")
	ErrNoResults         = errors.New("no eligibility results yet")
	ErrReceiptInvalid    = errors.New("receipt is invalid")
	ErrAdvisorDisabled   = errors.New("advisor summary is not configured")
)

// PreconditionError reports which inputs a verification is still missing.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return "verification needs " + strings.Join(e.Missing, ", ")
}

// ImportError describes why an uploaded transcript file was rejected.
// Row is 1-based and zero when the problem is not tied to a row.
type ImportError struct {
	Row    int
	Reason string
	Fields map[string]string
}

func (e *ImportError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("transcript row %d: %s", e.Row, e.Reason)
	}
	return "transcript import: " + e.Reason
}

// GenerationError wraps a failure of the external text model.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return "generate summary with " + e.Model + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
