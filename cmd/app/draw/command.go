package draw

import (
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/observability"
	"exusiai.dev/drawbank/internal/service"
)

type CommandDeps struct {
	fx.In

	Config      *appconfig.Config
	DrawService *service.Draw
}

// SourceFlags select and shape the tally. They are shared with `serve`.
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "most-numerous",
			Aliases: []string{"m"},
			Usage:   "chart the `N` most numerous groups on their own and the rest as Others",
			Value:   constant.DefaultTopN,
		},
		&cli.StringSliceFlag{
			Name:    "groups",
			Aliases: []string{"g"},
			Usage:   "taxonomic groups to read, or \"all\" for the whole section",
			Value:   cli.NewStringSlice(constant.GroupAll),
		},
		&cli.BoolFlag{
			Name:    "cumulative",
			Aliases: []string{"c"},
			Usage:   "chart running totals instead of yearly counts",
		},
		&cli.StringFlag{
			Name:    "section",
			Aliases: []string{"s"},
			Usage:   "NCBI section: genbank or refseq",
			Value:   constant.DefaultSection,
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "download every listing again",
		},
		&cli.StringSliceFlag{
			Name:  "assembly",
			Usage: "read a local assembly summary `FILE` instead of fetching listings (repeatable)",
		},
	}
}

// SourceOptions reads the flags of SourceFlags. Groups stays empty unless --groups
// was given; the resolver reads an empty filter as "all".
func SourceOptions(c *cli.Context) model.DrawOptions {
	var groups []string
	if c.IsSet("groups") {
		groups = c.StringSlice("groups")
	}
	return model.DrawOptions{
		Section:    c.String("section"),
		Groups:     groups,
		Assembly:   c.StringSlice("assembly"),
		TopN:       c.Int("most-numerous"),
		Cumulative: c.Bool("cumulative"),
		NoCache:    c.Bool("no-cache"),
	}
}

func Command(depsFn func(c *cli.Context) (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:  "draw",
		Usage: "chart genome counts per year from NCBI assembly summaries",
		Flags: append(SourceFlags(),
			&cli.StringSliceFlag{
				Name:    "formats",
				Aliases: []string{"f"},
				Usage:   "output formats: html, json, csv, xlsx",
				Value:   cli.NewStringSlice(constant.DefaultFormat),
			},
			&cli.StringFlag{
				Name:  "basename",
				Usage: "output file name without extension (default: drawbank_<section>[_cumulative])",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory the charts are written to",
				Value: ".",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "upload the charts to the configured S3 bucket",
			},
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "write Prometheus metrics of the run to `FILE`",
			},
		),
		Action: func(c *cli.Context) error {
			deps, err := depsFn(c)
			if err != nil {
				return err
			}

			opts := SourceOptions(c)
			opts.Formats = c.StringSlice("formats")
			opts.Basename = c.String("basename")
			opts.OutDir = c.String("out-dir")
			opts.Publish = c.Bool("publish")

			res, err := deps.DrawService.Run(c.Context, opts)
			if path := c.String("metrics-textfile"); path != "" {
				if err := observability.WriteTextfile(path); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("failed to write metrics textfile")
				}
			}
			if err != nil {
				return err
			}

			printSummary(c.App.Writer, deps.Config, res)
			return nil
		},
	}
}

func printSummary(w io.Writer, conf *appconfig.Config, res *service.DrawResult) {
	p := message.NewPrinter(language.English)

	first, last, _ := res.Tally.Years.Span()
	p.Fprintf(w, "%s\n", res.Figure.Title)
	// years are printed without digit grouping
	p.Fprintf(w, "%d genomes from %d sources, %s to %s\n", res.Tally.Rows, res.Tally.Sources, strconv.Itoa(first), strconv.Itoa(last))
	if res.Tally.MissingDates > 0 {
		p.Fprintf(w, "%d genomes had no date of submission\n", res.Tally.MissingDates)
	}
	for i, g := range res.Ranked {
		p.Fprintf(w, "%3d. %-24s %12d\n", i+1, g.Group, g.Total)
	}
	for _, o := range res.Outputs {
		p.Fprintf(w, "wrote %s\n", o.Path)
	}
	for _, key := range res.Published {
		p.Fprintf(w, "published s3://%s/%s\n", conf.S3Bucket, key)
	}
}
