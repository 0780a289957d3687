// Package logger configures the process-wide slog JSON logger and carries a
// request-scoped logger, tagged with trace and farmer IDs, through context.
package logger
