// Package logging configures the global zerolog logger for covert.
// Console output uses zerolog's console writer; an optional log file
// receives the same events in structured JSON form.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger setup.
//
// Fields:
//   - Level: Log level name ("debug", "info", "warn", "error"); defaults to info
//   - File: Optional path to a JSON log file; empty disables file logging
//   - Console: Whether to log human-readable output to stderr
type Options struct {
	Level   string
	File    string
	Console bool
}

// Setup configures the global zerolog logger from the given options.
//
// Unknown level names fall back to info rather than failing: logging setup
// must never prevent the tool from running.
//
// Parameters:
//   - opts: Logger options, typically derived from the logging config section
//
// Returns:
//   - io.Closer: Closer for the log file, or nil when no file is used
//   - error: When the log file cannot be opened
func Setup(opts Options) (io.Closer, error) {
	zerolog.SetGlobalLevel(parseLevel(opts.Level))

	var writers []io.Writer
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	var closer io.Closer
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
		closer = f
	}

	switch len(writers) {
	case 0:
		log.Logger = zerolog.Nop()
	case 1:
		log.Logger = log.Output(writers[0])
	default:
		log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
	}

	return closer, nil
}

// parseLevel maps a level name to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
