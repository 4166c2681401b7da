package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vxs/cli/cmd"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/pkg"
)

// CLI is the top-level command-line interface for vxs.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source []string `help:"Template source file(s) or '-' for stdin"                       name:"source" short:"s" type:"existingfile"`
	Data   []string `help:"Site data file(s), merged in order after ${dataEnv} entries" name:"data"   short:"d" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Tokens  cmd.Tokens  `cmd:"" help:"Print the tokens of a template"`
	Export  cmd.Export  `cmd:"" help:"Export the schema of groups, modifiers and rules"`
	Visible cmd.Visible `cmd:"" help:"Evaluate visibility rules"`
	Repl    cmd.Repl    `cmd:"" help:"Render templates interactively"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a template"`
}

// Run parses args and runs the selected command. Parse errors and --help call
// exit with the matching status.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logging flags take effect before parsing so that configuration
	// loading is logged at the requested level.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithDataFiles(ctx, pkg.DataPath(cli.Data...))

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

func (c *CLI) options(ctx context.Context, exit func(code int)) []kong.Option {
	file := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: file,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"dataEnv":            pkg.EnvVar("data"),
		"defaultLocale":      lang.DefaultLocale,
		"defaultDateLayout":  lang.DefaultDateLayout,
	}

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, strings.TrimSuffix(file, filepath.Ext(file))+".json"),
		kong.Configuration(resolve(ctx), file),
		vars.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}
