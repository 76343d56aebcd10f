package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a structured JSON logger. Logs go to stderr: stdout
// is reserved for the final account report. Default level is info,
// overridable via PAY_LOG_LEVEL.
func NewLogger(component string) zerolog.Logger {
	return NewLoggerWithLevel(component, ParseLevel(os.Getenv("PAY_LOG_LEVEL")))
}

// NewLoggerWithLevel creates a logger with an explicit level.
func NewLoggerWithLevel(component string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLevel maps a config/env level string to a zerolog level,
// defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
