package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider returns the context used by the logging functions
// that do not take one.
var DefaultContextProvider = context.TODO

var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr)
)

// Default returns the package logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// SetDefault replaces the package logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = l
}

// Config rebuilds the package logger with opts applied on top of its current
// configuration.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// With returns the package logger with attrs added to every message.
func With(attrs ...slog.Attr) Logger {
	return Default().With(attrs...)
}

// pkgSkip is the number of frames between logDepth and the caller of a
// package-level function: logDepth and the function itself.
const pkgSkip = 2

// TraceContext logs at [LevelTrace] through the package logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] through the package logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] through the package logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] through the package logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] through the package logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, pkgSkip, LevelError, msg, attrs)
}

// Trace logs at [LevelTrace] through the package logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), pkgSkip, LevelTrace, msg, attrs)
}

// Debug logs at [LevelDebug] through the package logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), pkgSkip, LevelDebug, msg, attrs)
}

// Info logs at [LevelInfo] through the package logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), pkgSkip, LevelInfo, msg, attrs)
}

// Warn logs at [LevelWarn] through the package logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), pkgSkip, LevelWarn, msg, attrs)
}

// Error logs at [LevelError] through the package logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), pkgSkip, LevelError, msg, attrs)
}
