// Package store defines the persistence contract for tasks.
// It abstracts the underlying storage engine from the service layer so that
// validation and defaulting rules stay independent of database details.
// Implementations live under internal/platform.
package store
