// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package.
//
// Setup builds the process-wide JSON logger from configuration. Request-scoped
// loggers travel through context.Context via WithLogger and FromContext, so
// handlers and pipeline stages log with the request's trace id attached.
package logger
