package catalog

import (
	"context"
	"log/slog"
)

// Logger is the interface that djtagspecs uses for structured logging.
//
// The interface is minimal yet compatible with popular logging libraries
// including log/slog, zap, and zerolog. It uses variadic key-value pairs
// for structured attributes, following the same convention as log/slog:
//
//	logger.Debug("resolved reference", "ref", "shared/*.toml", "locations", 3)
//
// Use [NewSlogAdapter] to wrap a standard library slog.Logger. A nil Logger
// on any engine type disables logging.
type Logger interface {
	// Debug logs a message at debug level with optional key-value attributes
	Debug(msg string, attrs ...any)
	// Info logs a message at info level with optional key-value attributes
	Info(msg string, attrs ...any)
	// Warn logs a message at warn level with optional key-value attributes
	Warn(msg string, attrs ...any)
	// Error logs a message at error level with optional key-value attributes
	Error(msg string, attrs ...any)
	// With returns a Logger that includes the given attributes in all
	// subsequent log records
	With(attrs ...any) Logger
}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger backed by the given slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs at debug level.
func (s *SlogAdapter) Debug(msg string, attrs ...any) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, argsToAttrs(attrs)...)
}

// Info logs at info level.
func (s *SlogAdapter) Info(msg string, attrs ...any) {
	s.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, argsToAttrs(attrs)...)
}

// Warn logs at warn level.
func (s *SlogAdapter) Warn(msg string, attrs ...any) {
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, argsToAttrs(attrs)...)
}

// Error logs at error level.
func (s *SlogAdapter) Error(msg string, attrs ...any) {
	s.logger.LogAttrs(context.Background(), slog.LevelError, msg, argsToAttrs(attrs)...)
}

// With returns a Logger with the given attributes attached.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

// argsToAttrs converts alternating key-value pairs to slog.Attr values.
// A trailing key without a value is recorded with a nil value.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		attrs = append(attrs, slog.Any(key, value))
	}
	return attrs
}

// NopLogger is a Logger that discards all log records.
type NopLogger struct{}

// Debug discards the record.
func (NopLogger) Debug(string, ...any) {}

// Info discards the record.
func (NopLogger) Info(string, ...any) {}

// Warn discards the record.
func (NopLogger) Warn(string, ...any) {}

// Error discards the record.
func (NopLogger) Error(string, ...any) {}

// With returns the NopLogger unchanged.
func (n NopLogger) With(...any) Logger { return n }
