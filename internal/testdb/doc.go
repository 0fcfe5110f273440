//go:build integration

// Package testdb provides the PostgreSQL harness for integration tests.
//
// Tests call GetTestDBWithT to obtain a migrated database (skipping when no
// database URL is configured) and WithTx to run each case inside a
// transaction that is always rolled back:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		tasks := postgres.NewPostgresTaskStore(tx, logger)
//		...
//	})
package testdb
