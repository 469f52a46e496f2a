package app

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	cliapp "exusiai.dev/drawbank/cmd/app/cli"
	"exusiai.dev/drawbank/cmd/app/draw"
	"exusiai.dev/drawbank/cmd/app/fetch"
	"exusiai.dev/drawbank/cmd/app/serve"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/pkg/bininfo"
)

func Run() {
	// replaced by logger.Configure once the configuration is parsed
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.App{
		Name:        "drawbank",
		Usage:       "chart NCBI genome assemblies per year",
		Description: "Reads NCBI assembly_summary.txt listings, tallies assemblies by submission year and taxonomic group, and renders a stacked bar chart of the most numerous groups.",
		Version:     bininfo.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log at debug level",
			},
		},
		Commands: []*cli.Command{
			draw.Command(cliapp.DepsFn[draw.CommandDeps]()),
			fetch.Command(cliapp.DepsFn[fetch.CommandDeps]()),
			serve.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)

		log.Error().Err(err).Str("code", bankerr.Code(err)).Msg("drawbank failed")
		os.Exit(1)
	}
}
