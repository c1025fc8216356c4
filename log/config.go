package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message. It extends slog's levels
// with a trace level below debug.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug) - 4
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default minimum log level.
const DefaultLevel = LevelInfo

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	return slog.Level(l).String()
}

// Levels returns the names of all defined log levels, lowest first.
func Levels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// ParseLevel parses a level name. Unrecognized names fall back to
// DefaultLevel.
func ParseLevel(s string) Level {
	// slog.Level.UnmarshalText does not know "trace".
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// String returns the lowercase name of the format.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "text"
}

// Formats returns the names of all defined log formats.
func Formats() []string {
	return []string{"text", "json"}
}

// ParseFormat parses a format name. Unrecognized names fall back to
// DefaultFormat.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}

	return DefaultFormat
}

// DefaultTimeLayout formats log timestamps unless overridden.
const DefaultTimeLayout = time.RFC3339

// config holds the configuration of a Logger. Loggers are immutable; every
// change goes through Make or Wrap, which copy the config.
type config struct {
	output     io.Writer
	timeLayout string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	if w == nil {
		w = io.Discard
	}

	return apply(config{
		output:     w,
		timeLayout: DefaultTimeLayout,
		level:      DefaultLevel,
		format:     DefaultFormat,
	}, opts...)
}

// handler builds the slog.Handler described by the config.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)

	case c.pretty:
		return newPrettyHandler(c.output, opts)

	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// replaceAttr rewrites timestamps to the configured layout and renames the
// synthetic trace level from slog's "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			if c.timeLayout == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(t.Format(c.timeLayout))
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithLevel sets the minimum log level. Messages below it are discarded.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the output format for log messages.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithOutput sets the output writer. A nil writer discards all output.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithTimeLayout sets the timestamp layout (a time.Time.Format layout
// string). An empty layout omits timestamps entirely.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.timeLayout = strings.TrimSpace(layout)

		return c
	}
}

// WithCaller controls whether source location is included in log output.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty enables human-oriented colored text output. Ignored for JSON.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}
