package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/axleworks/partext/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so the format takes effect early enough to shape
// messages emitted during parsing itself.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	configLog(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	configLog(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"    enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

// configLog reconfigures the process-wide logger.
func configLog(opts ...log.Option) {
	log.SetDefault(log.Default().Wrap(opts...))
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start finalizes the logger configuration with all parsed values, including
// TimeLayout and Caller which don't use TextUnmarshaler.
func (f *logConfig) start(ctx context.Context) func() {
	layout := f.TimeLayout
	if strings.EqualFold(layout, "rfc3339") {
		layout = "2006-01-02T15:04:05Z07:00"
	}

	log.SetDefault(log.Make(
		os.Stderr,
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(layout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	))

	log.Default().DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan performs an early pass over command-line arguments to apply logger
// configuration before kong begins parsing, so flag position on the command
// line does not matter. Boolean flags like --log-pretty never go through
// TextUnmarshaler, which is why parsing alone is not enough.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		boolValue := func(invert bool) (bool, bool) {
			if !assigned {
				return !invert, true
			}

			v, err := strconv.ParseBool(value)
			if err != nil {
				return false, false
			}

			return v != invert, true
		}

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}

			if name == "--log-level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "--log-pretty", "--no-log-pretty":
			if v, ok := boolValue(name == "--no-log-pretty"); ok {
				f.Pretty = v

				configLog(log.WithPretty(v))
			}

		case "--log-caller", "--no-log-caller":
			if v, ok := boolValue(name == "--no-log-caller"); ok {
				f.Caller = v

				configLog(log.WithCaller(v))
			}
		}
	}
}
