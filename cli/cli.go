package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/qex/cli/cmd"
	"github.com/ardnew/qex/pkg"
)

// CLI is the top-level command-line interface for qex.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Math   cmd.Math   `cmd:"" help:"Translate a math expression to LaTeX"`
	HTML   cmd.HTML   `cmd:"" help:"Render a tag expression to HTML"         name:"html"`
	Deriv  cmd.Deriv  `cmd:"" help:"Differentiate an expression symbolically"`
	Filter cmd.Filter `cmd:"" help:"Filter a YAML data frame with a row predicate"`
	Fmt    cmd.Fmt    `cmd:"" help:"Parse an expression and format its tree"`
	Repl   cmd.Repl   `cmd:"" help:"Interactive resolver loop"`
}

// Run executes the qex CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveYAML, configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCacheDir(ctx, cacheDir())

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
