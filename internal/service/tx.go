package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phrazzld/task-api/internal/store"
)

// TxRunner runs fn as one atomic unit of work against a TaskStore.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, tasks store.TaskStore) error) error

// SQLTxRunner runs each unit of work in a database transaction, handing fn a
// store bound to that transaction. Failures to begin or commit are reported
// as store.ErrStorage; an error from fn is returned as is.
func SQLTxRunner(db *sql.DB, tasks store.TaskStore) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context, tasks store.TaskStore) error) error {
		var fnErr error
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			fnErr = fn(ctx, tasks.WithTx(tx))
			return fnErr
		})
		if fnErr != nil {
			// Rollback failures are logged by RunInTransaction.
			return fnErr
		}
		if err != nil {
			return fmt.Errorf("%w: %w", store.ErrStorage, err)
		}
		return nil
	}
}

// DirectTxRunner runs fn against tasks without a transaction. It suits
// stores that are atomic on their own, such as the in-memory test store.
func DirectTxRunner(tasks store.TaskStore) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context, tasks store.TaskStore) error) error {
		return fn(ctx, tasks)
	}
}
