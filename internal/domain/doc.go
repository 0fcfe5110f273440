// Package domain defines the core business entities of the task tracker:
// the Task record, its closed set of statuses, the optional-field inputs
// used for partial updates, and the validation errors produced when input
// does not satisfy the task rules.
//
// The package has no dependencies on storage or transport. Time is supplied
// through the Clock interface so callers can stamp and compare timestamps
// deterministically.
package domain
