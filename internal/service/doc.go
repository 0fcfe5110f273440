// Package service contains the task use cases. It validates and normalises
// client input, applies defaults, stamps timestamps from an injected clock,
// and coordinates the store, running updates inside a transaction.
//
// The service depends on the store interfaces only, never on a specific
// database implementation.
package service
