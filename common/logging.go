// Package common holds process-wide plumbing shared by the binaries and the
// library packages: logger construction and the build version.
package common

import (
	"io"
	"log/slog"
	"os"
)

// LoggingOpts configures the process logger.
type LoggingOpts struct {
	// Debug enables debug-level logging.
	Debug bool

	// JSON switches the handler to JSON output.
	JSON bool

	// Service is added as a 'service' tag to all log lines.
	Service string

	// Version is added as a 'version' tag to all log lines.
	Version string
}

// SetupLogger builds the process logger writing to stderr.
func SetupLogger(opts *LoggingOpts) (log *slog.Logger) {
	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}

	if opts.JSON {
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}

	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}

	return log
}

// EngineLogger normalizes a component logger: nil falls back to the process
// default, and a disabled flag swaps in a discard handler so engine internals
// stay silent.
func EngineLogger(enabled bool, log *slog.Logger) *slog.Logger {
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if log == nil {
		return slog.Default()
	}
	return log
}
