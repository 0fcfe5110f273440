//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection, migration and transaction setup.
const TestTimeout = 30 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDBWithT opens the test database, applies the embedded migrations
// once per test binary and registers cleanup. It skips the test when no
// database URL is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("none of %v set - skipping integration test", databaseURLEnvVars)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if isCIEnvironment() {
			t.Logf("database URL (masked): %s", maskDatabaseURL(dbURL))
		}
		t.Fatalf("database ping failed: %v", err)
	}

	require.NoError(t, SetupTestDatabaseSchema(ctx, db), "failed to migrate test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close database connection: %v", err)
		}
	})

	return db
}

// SetupTestDatabaseSchema runs the embedded migrations up to the latest
// version. Only the first call per process does any work.
func SetupTestDatabaseSchema(ctx context.Context, db *sql.DB) error {
	migrateOnce.Do(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		migrateErr = postgres.Migrate(ctx, db, "up", quiet)
	})
	if migrateErr != nil {
		return fmt.Errorf("apply migrations: %w", migrateErr)
	}
	return nil
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			// ALLOW-PANIC
			panic(r)
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
