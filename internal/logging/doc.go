// Package logging assembles structured slog loggers and formatting helpers used
// across subtrans.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, stages and block positions. WarnWithContext enforces the
// event_type/error_hint/impact triple on warnings. NewNop serves tests and
// wiring code that cannot fail.
package logging
