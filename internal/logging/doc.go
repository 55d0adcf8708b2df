// Package logging assembles the structured slog loggers used across
// reelcaption.
//
// It owns the console and JSON handlers, maps configured levels onto slog,
// and exposes context-aware helpers so composition code tags every line with
// the session and asset it belongs to. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
