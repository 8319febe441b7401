package algebra

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with algebra-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// shape is the read-only surface the logging helpers need from a matrix of
// any scalar type.
type shape interface {
	Rows() int
	Columns() int
	Size() int
	IsCompressed() bool
}

// MatrixAttrs returns the standard log attributes describing a matrix.
func MatrixAttrs(m shape) []any {
	return []any{
		slog.Int("rows", m.Rows()),
		slog.Int("columns", m.Columns()),
		slog.Int("nonzeros", m.Size()),
		slog.Bool("compressed", m.IsCompressed()),
	}
}
