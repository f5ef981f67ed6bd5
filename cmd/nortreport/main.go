package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/nortreport/cmd/nortreport/commands"
	"git.home.luguber.info/inful/nortreport/internal/foundation/errors"
	"git.home.luguber.info/inful/nortreport/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("nortreport"),
		kong.Description("Generate a one-page link report with archive, RSS feed and sitemap."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
