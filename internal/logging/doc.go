// Package logging builds the slog loggers used across rollcall.
//
// It supports console and JSON output, fans log writes out to the
// configured log directory, and standardizes the structured field names
// (component, run_id, row) the CLI and pipeline attach to records.
package logging
