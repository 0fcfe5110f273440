package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "tasks",
		ColumnName:     "title",
		ConstraintName: "tasks_status_check",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  []error
		wantNot []error
	}{
		{
			name:    "no rows",
			err:     sql.ErrNoRows,
			wantIs:  []error{store.ErrNotFound, sql.ErrNoRows},
			wantNot: []error{store.ErrStorage},
		},
		{
			name:    "check violation",
			err:     newPgError("23514"),
			wantIs:  []error{store.ErrInvalidEntity},
			wantNot: []error{store.ErrStorage, store.ErrNotFound},
		},
		{
			name:   "not null violation",
			err:    newPgError("23502"),
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:   "unique violation",
			err:    newPgError("23505"),
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:   "foreign key violation",
			err:    newPgError("23503"),
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:    "unmapped postgres error",
			err:     newPgError("57P01"),
			wantIs:  []error{store.ErrStorage},
			wantNot: []error{store.ErrInvalidEntity},
		},
		{
			name:   "connection failure",
			err:    errors.New("dial tcp: connection refused"),
			wantIs: []error{store.ErrStorage},
		},
		{
			name:    "null byte in text",
			err:     newPgError("22021"),
			wantIs:  []error{store.ErrInvalidEntity},
			wantNot: []error{store.ErrStorage},
		},
		{
			name:    "value too long",
			err:     fmt.Errorf("exec: %w", newPgError("22001")),
			wantIs:  []error{store.ErrInvalidEntity},
			wantNot: []error{store.ErrStorage},
		},
		{
			name:    "deadline exceeded",
			err:     fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantIs:  []error{context.DeadlineExceeded},
			wantNot: []error{store.ErrStorage},
		},
		{
			name:    "cancelled",
			err:     fmt.Errorf("query: %w", context.Canceled),
			wantIs:  []error{context.Canceled},
			wantNot: []error{store.ErrStorage},
		},
		{
			name:    "already mapped not found",
			err:     store.ErrTaskNotFound,
			wantIs:  []error{store.ErrTaskNotFound},
			wantNot: []error{store.ErrStorage},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tt.err)
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, mapped, target)
			}
			for _, target := range tt.wantNot {
				assert.NotErrorIs(t, mapped, target)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, postgres.MapError(nil))
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(newPgError("23502")))
	assert.True(t, postgres.IsNotNullViolation(fmt.Errorf("wrapped: %w", newPgError("23502"))))
	assert.False(t, postgres.IsNotNullViolation(errors.New("plain")))
	assert.True(t, postgres.IsDataException(newPgError("22021")))
	assert.False(t, postgres.IsDataException(newPgError("23514")))
	assert.False(t, postgres.IsDataException(errors.New("22021")))
	assert.True(t, postgres.IsContextError(context.Canceled))
	assert.False(t, postgres.IsContextError(sql.ErrNoRows))
}
