package fieldtape

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fieldtape-specific helpers so operations
// log with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// LogSet logs a set operation.
func (l *Logger) LogSet(name string, bytes int, err error) {
	if err != nil {
		l.Error("set failed",
			"field", name,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.Debug("set completed",
			"field", name,
			"bytes", bytes,
		)
	}
}

// LogRemove logs a remove operation. moved is the number of tape bytes
// shifted left by the compaction.
func (l *Logger) LogRemove(name string, moved int) {
	l.Debug("remove completed",
		"field", name,
		"bytes_moved", moved,
	)
}

// LogBlit logs a blit encode or decode.
func (l *Logger) LogBlit(op string, rawBytes, encodedBytes int, err error) {
	if err != nil {
		l.Error("blit failed",
			"op", op,
			"error", err,
		)
	} else {
		l.Debug("blit completed",
			"op", op,
			"raw_bytes", rawBytes,
			"encoded_bytes", encodedBytes,
		)
	}
}
