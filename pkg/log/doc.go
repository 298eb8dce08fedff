// Package log provides structured validation logging for VSS trees.
//
// This package defines the Logger interface and Event type for capturing
// validation findings. It is separate from operational logging (slog) -
// the event stream is a complete machine-readable record of everything a
// validation run found, suitable for archiving and diffing between
// specification releases.
//
// # Basic Usage
//
// Validators report findings to a Logger implementation:
//
//	// For development: findings on the console via slog
//	v.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For CI: write a binary findings file
//	v.Logger, _ = log.NewFileLogger("findings.vlog")
//
//	// Both: use MultiLogger
//	v.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. The
// Reader type iterates them, optionally filtered.
package log
