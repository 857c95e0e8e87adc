// Package logging builds the slog loggers used across the CLI and the
// cron runner.
//
// Loggers write human-readable console output or JSON lines, and can
// additionally tee into a size-rotated log file.
package logging
