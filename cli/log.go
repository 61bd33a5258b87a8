package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/qex/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during
// parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during
// parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"json"    enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While logFormat and logLevel implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, boolean
// flags like Pretty don't go through that interface. This pre-scan ensures
// all logger flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		// Non-boolean flags may carry their value in the next argument.
		takeValue := func() string {
			if assigned {
				return value
			}

			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return ""
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(takeValue()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(takeValue()))

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = scanBool(name, value, assigned, "--log-pretty")
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = scanBool(name, value, assigned, "--log-caller")
			log.Config(log.WithCaller(f.Caller))
		}
	}
}

// scanBool interprets a possibly-negated boolean flag. A bare flag means
// true for the positive form and false for the negated form; an explicit
// "=value" is parsed and inverted for the negated form.
func scanBool(name, value string, assigned bool, positive string) bool {
	set := name == positive

	if !assigned {
		return set
	}

	v, err := strconv.ParseBool(value)
	if err != nil {
		return set
	}

	if !set {
		return !v
	}

	return v
}
