package fetch

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/service"
)

type CommandDeps struct {
	fx.In

	ResolverService *service.Resolver
}

func Command(depsFn func(c *cli.Context) (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "download or refresh cached assembly summaries and print their paths",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "groups",
				Aliases: []string{"g"},
				Usage:   "taxonomic groups to fetch, or \"all\" for the whole section",
				Value:   cli.NewStringSlice(constant.GroupAll),
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
		},
		Action: func(c *cli.Context) error {
			deps, err := depsFn(c)
			if err != nil {
				return err
			}

			paths, err := deps.ResolverService.Resolve(c.Context, c.String("section"), c.StringSlice("groups"), service.ResolveOptions{
				NoCache: c.Bool("no-cache"),
			})
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			return nil
		},
	}
}
