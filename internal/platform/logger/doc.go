// Package logger provides structured logging for the application.
//
// It builds on the standard library log/slog package: Setup installs a JSON
// handler at the configured level, and the context helpers let request- and
// job-scoped loggers (carrying trace IDs or component names) travel with a
// context.Context.
package logger
