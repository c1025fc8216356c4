// Package cli wires the partext command tree. Flags are grouped into the
// logging and profiling groups plus the top-level document flags shared by
// every command.
package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/axleworks/partext/cli/cmd"
	"github.com/axleworks/partext/pkg"
)

// CLI is the top-level command-line interface for partext.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Snapshot string `help:"Document snapshot file (YAML)" name:"snapshot" short:"s" type:"existingfile"`
	Store    string `help:"Text store database"           name:"store"    short:"d" default:"${storePath}"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Render template text against the document snapshot"`
	Set     cmd.Set     `cmd:"" help:"Create or update a stored text"`
	Rm      cmd.Rm      `cmd:"" help:"Remove a stored text or one of its sketch bindings"`
	List    cmd.List    `cmd:"" help:"List stored texts"`
	Export  cmd.Export  `cmd:"" help:"Export stored texts to CSV"`
	Import  cmd.Import  `cmd:"" help:"Import stored texts from CSV"`
	Repl    cmd.Repl    `cmd:"" help:"Interactive template preview"`
	Version cmd.Version `cmd:"" help:"Print program version"`
}

// Run executes the partext CLI with the given context and arguments.
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

	vars := kong.Vars{
		"storePath": configPath(baseStore),
	}.CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those
	// flags during normal parsing, but this early scan also catches boolean
	// flags like --log-pretty.
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
				NoExpandSubcommands: true,
			}),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEnvironment(ctx, cmd.Environment{
		SnapshotPath: cli.Snapshot,
		StorePath:    cli.Store,
		CacheDir:     cacheDir(),
	})

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
