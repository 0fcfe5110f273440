package store

import (
	"errors"
	"fmt"
)

// Common store errors used by all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when the database rejects an entity because
	// it violates a constraint. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrStorage marks failures of the underlying storage itself (connection
	// loss, timeouts, unexpected driver errors). Callers may retry.
	ErrStorage = errors.New("storage unavailable")

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorageError reports whether err is a transient storage failure.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
