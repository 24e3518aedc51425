// Package logging assembles the structured slog loggers used across the
// gallery linker.
//
// It owns the console/JSON handler selection, centralizes level and output
// plumbing, and standardizes attribute keys so every component tags log lines
// with the same gallery, performer, and match fields. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
