// Package log provides structured capture of packed frames.
//
// This package defines the Logger interface and Event type used to record
// every frame a packer produces, together with the signal values, injected
// counter and checksum that went into it. It is separate from operational
// logging (slog): capture provides a complete machine-readable trace for
// replay and analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/canpack/ecu.clog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Frame: a successfully packed frame (FrameEvent)
//   - Error: a rejected pack call (ErrorEventData)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, using the
// .clog extension. The canpack-log CLI tool provides viewing, statistics and
// export.
package log
