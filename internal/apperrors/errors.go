package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource changed underneath the caller (e.g. a rule already advanced by another run).
var ErrConflict = errors.New("resource state conflict")

// ErrInvalidRule indicates malformed recurrence parameters. It is also an ErrValidation.
var ErrInvalidRule = fmt.Errorf("%w: invalid recurrence rule", ErrValidation)

// ErrProjectionExhausted indicates the projector could not find a next occurrence.
var ErrProjectionExhausted = errors.New("no further occurrence could be projected")

// ErrBalanceInconsistency indicates a stored running balance diverges from the re-summed ledger.
var ErrBalanceInconsistency = errors.New("account balance diverges from ledger total")

// AppError carries an HTTP-ish status code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ItemFailure records the failure of one independently processed item.
type ItemFailure struct {
	ID  string
	Err error
}

// PartialGenerationError reports that some recurrence rules failed while others were committed.
type PartialGenerationError struct {
	Failures []ItemFailure
}

func (e *PartialGenerationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.ID, f.Err))
	}
	return fmt.Sprintf("%d rule(s) failed during generation: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every underlying failure to errors.Is / errors.As.
func (e *PartialGenerationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
