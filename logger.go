package vmarena

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithArena tags the logger with an arena's base address and capacity.
func (l *Logger) WithArena(base uintptr, capacity int) *Logger {
	return &Logger{
		Logger: l.Logger.With("base", base, "capacity", capacity),
	}
}

// LogReserve logs an address-space reservation.
func (l *Logger) LogReserve(size int, err error) {
	if err != nil {
		l.Error("reserve failed",
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("reserve completed",
			"size", size,
		)
	}
}

// LogCommit logs a page commit that moved the committed boundary.
func (l *Logger) LogCommit(from, to int, err error) {
	if err != nil {
		l.Error("commit failed",
			"from", from,
			"to", to,
			"error", err,
		)
	} else {
		l.Debug("commit completed",
			"from", from,
			"to", to,
		)
	}
}

// LogReset logs an arena reset.
func (l *Logger) LogReset(live, uncommitted int, generation uint32, err error) {
	if err != nil {
		l.Error("reset failed to uncommit pages",
			"live", live,
			"uncommitted", uncommitted,
			"generation", generation,
			"error", err,
		)
	} else {
		l.Debug("reset completed",
			"live", live,
			"uncommitted", uncommitted,
			"generation", generation,
		)
	}
}

// LogLeak logs an arena that was garbage collected without Close.
func (l *Logger) LogLeak(size int) {
	l.Warn("arena collected without Close, reservation leaked",
		"size", size,
	)
}

// LogRelease logs the release of a reservation.
// A failed release leaks the reservation; it is never retried.
func (l *Logger) LogRelease(size int, err error) {
	if err != nil {
		l.Error("release failed, reservation leaked",
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("release completed",
			"size", size,
		)
	}
}
