package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/simpledocs/cmd/simpledocs/commands"
	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
	"git.home.luguber.info/inful/simpledocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("simpledocs"),
		kong.Description("Build a static HTML documentation site from markdown and a TOC manifest."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
