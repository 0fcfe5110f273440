package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Implementations are responsible for the atomicity of each individual call;
// multi-call units of work go through WithTx.
type TaskStore interface {
	// Create inserts a new task and sets task.ID to the identifier assigned
	// by the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDForUpdate retrieves a task and locks it until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error)

	// List returns every task, most recently created first.
	// Returns an empty slice when there are no tasks.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update writes title, description, status and updated_at of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// FindStalePending returns pending tasks whose updated_at is strictly
	// before cutoff, oldest first.
	FindStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Task, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
