package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskServiceError wraps unexpected failures of a task operation with context.
// Expected conditions (validation, not found, storage unavailable) are
// returned as or wrapped around their sentinels so callers can use errors.Is.
type TaskServiceError struct {
	// Operation is the operation that failed, e.g. "update_task".
	Operation string
	// Message is a human-readable description of the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError wraps err for operation. Validation and not-found
// errors are returned unchanged.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrValidation) || errors.Is(err, store.ErrNotFound) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
