package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"

	// Class 22 covers values the server refuses to store, such as
	// 22021 (NUL byte in text) or 22001 (string too long).
	dataExceptionClass = "22"
)

// MapError translates a database error into the store error vocabulary.
// sql.ErrNoRows becomes store.ErrNotFound, integrity violations and data
// exceptions become store.ErrInvalidEntity, and everything else is reported
// as store.ErrStorage. Cancellation and deadline errors are returned as they
// are, since they say nothing about the health of the database.
// The original error stays in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrStorage) ||
		errors.Is(err, store.ErrInvalidEntity) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	if IsContextError(err) {
		return err
	}

	switch {
	case IsCheckConstraintViolation(err):
		return fmt.Errorf("%w: check constraint violation (%s): %w",
			store.ErrInvalidEntity, pgErrorOf(err).ConstraintName, err)
	case IsNotNullViolation(err):
		return fmt.Errorf("%w: not null violation (%s): %w",
			store.ErrInvalidEntity, pgErrorOf(err).ColumnName, err)
	case IsDataException(err):
		return fmt.Errorf("%w: data exception (%s): %w",
			store.ErrInvalidEntity, pgErrorOf(err).Code, err)
	}

	if pgErr := pgErrorOf(err); pgErr != nil {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: unique violation (%s): %w",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %w",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		}
	}

	return fmt.Errorf("%w: %w", store.ErrStorage, err)
}

// IsCheckConstraintViolation reports whether err is a CHECK constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// IsNotNullViolation reports whether err is a NOT NULL violation.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}

// IsDataException reports whether err is in SQLSTATE class 22, a value the
// server will never accept no matter how often it is retried.
func IsDataException(err error) bool {
	pgErr := pgErrorOf(err)
	return pgErr != nil && len(pgErr.Code) == 5 && pgErr.Code[:2] == dataExceptionClass
}

func pgErrorOf(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// IsContextError reports whether err was caused by cancellation or deadline expiry.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// checkRowsAffected returns notFound when result reports zero affected rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
