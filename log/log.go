// Package log wraps log/slog with a trace level, pluggable output formats,
// and a process-wide default logger. Loggers are immutable values; deriving
// a variant never mutates the original.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is an immutable slog wrapper. The zero value discards everything.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a Logger writing to w with the given options applied over the
// defaults (text format, info level, RFC3339 timestamps, no caller info).
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Wrap returns a Logger with opts applied over l's configuration.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := apply(l.config, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// With returns a Logger that includes attrs in every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return Logger{
		config: l.config,
		Logger: slog.New(l.Handler().WithAttrs(attrs)),
	}
}

// Level returns the minimum level of the logger.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the output format of the logger.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// Trace logs a message below debug level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.TraceContext(context.Background(), msg, attrs...)
}

// TraceContext logs a message below debug level with the provided context.
func (l Logger) TraceContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	if l.Logger == nil || !l.Enabled(ctx, slog.Level(LevelTrace)) {
		return
	}

	r := slog.NewRecord(time.Now(), slog.Level(LevelTrace), msg, 0)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// defaultLogger is the process-wide logger, replaceable via SetDefault.
var defaultLogger atomic.Value

var fallback = sync.OnceValue(func() Logger { return Make(os.Stderr) })

// Default returns the process-wide logger. Before SetDefault has been
// called, it returns a text logger writing to standard error.
func Default() Logger {
	if l, ok := defaultLogger.Load().(Logger); ok {
		return l
	}

	return fallback()
}

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) { defaultLogger.Store(l) }

// Package-level convenience functions delegating to the default logger.

func Trace(msg string, attrs ...slog.Attr) { Default().Trace(msg, attrs...) }

func Debug(msg string, attrs ...slog.Attr) {
	Default().LogAttrs(context.Background(), slog.Level(LevelDebug), msg, attrs...)
}

func Info(msg string, attrs ...slog.Attr) {
	Default().LogAttrs(context.Background(), slog.Level(LevelInfo), msg, attrs...)
}

func Warn(msg string, attrs ...slog.Attr) {
	Default().LogAttrs(context.Background(), slog.Level(LevelWarn), msg, attrs...)
}

func Error(msg string, attrs ...slog.Attr) {
	Default().LogAttrs(context.Background(), slog.Level(LevelError), msg, attrs...)
}

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().LogAttrs(ctx, slog.Level(LevelDebug), msg, attrs...)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().LogAttrs(ctx, slog.Level(LevelInfo), msg, attrs...)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().LogAttrs(ctx, slog.Level(LevelWarn), msg, attrs...)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().LogAttrs(ctx, slog.Level(LevelError), msg, attrs...)
}
