// Package postgres implements the store interfaces on top of PostgreSQL.
// It owns the SQL, the mapping between rows and domain values, the
// translation of driver errors into store errors, and the embedded
// schema migrations.
package postgres
