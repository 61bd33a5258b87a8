// Package log provides a thin, concurrency-safe wrapper over [log/slog] with
// a Trace level below Debug, selectable text/JSON output, optional colorized
// pretty printing, and functional-option configuration.
//
// The zero value of [Logger] is valid and discards all messages, which lets
// library code accept an optional logger without nil checks.
package log
