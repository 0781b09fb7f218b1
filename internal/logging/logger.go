// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// SystemKey is the attribute key carrying the system tag on every record.
const SystemKey = "sys"

// Options control the logger built by [New].
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// Format is text or json. Unknown values mean text.
	Format string

	// SystemTag, when set, is attached to every record under [SystemKey].
	SystemTag string
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	hOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	var h slog.Handler
	if strings.EqualFold(opts.Format, FormatJSON) {
		h = slog.NewJSONHandler(w, hOpts)
	} else {
		h = slog.NewTextHandler(w, hOpts)
	}

	log := slog.New(h)
	if opts.SystemTag != "" {
		log = log.With(SystemKey, opts.SystemTag)
	}
	return log
}

// ParseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
