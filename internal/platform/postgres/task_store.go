package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, description, status, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that is managed by the caller.
// If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create.
// The generated ID is written back to task.ID.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", redact.ErrorAttr(err))
		return err
	}

	query := `
		INSERT INTO tasks (title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task", redact.ErrorAttr(err))
		return MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("status", task.Status.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate.
// The row lock is held until the surrounding transaction ends.
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresTaskStore) get(ctx context.Context, id int64, forUpdate bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID",
		slog.Int64("task_id", id),
		slog.Bool("for_update", forUpdate))

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			redact.ErrorAttr(err),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List.
// Tasks are ordered by creation time, newest first; id breaks ties.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`

	tasks, err := s.queryTasks(ctx, query)
	if err != nil {
		log.Error("failed to list tasks", redact.ErrorAttr(err))
		return nil, MapError(err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			redact.ErrorAttr(err),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			redact.ErrorAttr(err),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for update", slog.Int64("task_id", task.ID))
			return err
		}
		log.Error("failed to confirm task update",
			redact.ErrorAttr(err),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", task.Status.String()))
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			redact.ErrorAttr(err),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
			return err
		}
		log.Error("failed to confirm task delete",
			redact.ErrorAttr(err),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// FindStalePending implements store.TaskStore.FindStalePending.
func (s *PostgresTaskStore) FindStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC, id ASC
	`

	tasks, err := s.queryTasks(ctx, query, domain.StatusPending, cutoff)
	if err != nil {
		log.Error("failed to query stale pending tasks",
			redact.ErrorAttr(err),
			slog.Time("cutoff", cutoff))
		return nil, MapError(err)
	}

	log.Debug("stale pending tasks found",
		slog.Int("count", len(tasks)),
		slog.Time("cutoff", cutoff))
	return tasks, nil
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}
