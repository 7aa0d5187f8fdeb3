// Package log provides structured event logging for the shutdown scheduler.
//
// This package defines the Logger interface and Event type used to capture
// every scheduler transition (arm, reject, tick, cancel, complete, fail).
// It is separate from operational logging (slog): the event log is a
// complete machine-readable trace of armed cycles for auditing and for the
// offtimer-log tool.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/offtimer/events.olog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a sequence of CBOR-encoded events with integer map keys
// (.olog extension). Reader streams them back with optional filtering.
package log
