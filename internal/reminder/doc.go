// Package reminder periodically looks for tasks that have stayed Pending
// without an update for longer than a threshold and emits one reminder
// event per task found.
//
// The scanner is read-only: it never changes task state, so a task keeps
// being reported on every tick for as long as it remains pending and stale.
package reminder
