package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDependency covers self references, cross-project endpoints and
	// unknown relationship kinds.
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrNotFound indicates the referenced activity, dependency or project does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed input such as an unparseable date or a
	// negative duration at the persistence boundary.
	ErrValidation = errors.New("validation failed")

	// ErrExternalOperation marks failures of the backend or the scheduling service.
	ErrExternalOperation = errors.New("external operation failed")

	// ErrScheduleInFlight rejects a schedule request while another one for the
	// same project has not resolved.
	ErrScheduleInFlight = errors.New("schedule request already in flight")

	// ErrStaleResult reports a schedule response that arrived after its project
	// view was closed; the response was discarded.
	ErrStaleResult = errors.New("schedule result discarded")
)

// ExternalOperationError wraps a failed backend call. The underlying error is
// surfaced unchanged through Unwrap.
type ExternalOperationError struct {
	Op        string
	ProjectID string
	Err       error
}

func (e *ExternalOperationError) Error() string {
	if e.ProjectID != "" {
		return fmt.Sprintf("%s (project %s): %v", e.Op, e.ProjectID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalOperationError) Unwrap() error { return e.Err }

func (e *ExternalOperationError) Is(target error) bool {
	return target == ErrExternalOperation
}

// NewExternalOperationError wraps err unless it is nil or already an
// ExternalOperationError.
func NewExternalOperationError(op, projectID string, err error) error {
	if err == nil {
		return nil
	}
	var ext *ExternalOperationError
	if errors.As(err, &ext) {
		return err
	}
	return &ExternalOperationError{Op: op, ProjectID: projectID, Err: err}
}

// CycleError lists the activities that could not be ordered because their
// dependencies form at least one cycle.
type CycleError struct {
	ActivityIDs []int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among activities %v", e.ActivityIDs)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrInvalidDependency
}
