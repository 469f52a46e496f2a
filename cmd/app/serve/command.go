package serve

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/drawbank/cmd/app/cli"
	"exusiai.dev/drawbank/cmd/app/draw"
	"exusiai.dev/drawbank/internal/app"
	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/app/appcontext"
	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/controller"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/server"
	"exusiai.dev/drawbank/internal/service"
	"exusiai.dev/drawbank/internal/util/rekuest"
	"exusiai.dev/drawbank/internal/workers/refreshwkr"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "load assembly summaries once and serve their chart over HTTP",
		Flags: draw.SourceFlags(),
		Action: func(c *cli.Context) error {
			opts := draw.SourceOptions(c)
			opts.Formats = constant.Formats
			opts.OutDir = "."
			if err := rekuest.ValidStruct(opts); err != nil {
				return err
			}

			ctx := cliapp.Context(c)
			ctx.Env = appcontext.EnvServer

			var gallery *service.Gallery
			a, err := app.New(ctx,
				server.Module(),
				controller.Module(),
				fx.Populate(&gallery),
				fx.Invoke(run(opts)),
			)
			if err != nil {
				return err
			}

			if err := a.Start(c.Context); err != nil {
				return err
			}
			sig := <-a.Wait()
			if err := a.Stop(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to stop gracefully")
			}
			if sig.ExitCode != 0 {
				return gallery.Status()
			}
			return nil
		},
	}
}

// run starts listening and loads the gallery in the background; /_/health reports
// NOT_READY until it is loaded. A failed first load shuts the server down; after
// it, the gallery is reloaded every RefreshInterval.
func run(opts model.DrawOptions) func(app *fiber.App, conf *appconfig.Config, gallery *service.Gallery, lc fx.Lifecycle, shutdowner fx.Shutdowner) {
	return func(app *fiber.App, conf *appconfig.Config, gallery *service.Gallery, lc fx.Lifecycle, shutdowner fx.Shutdowner) {
		loadCtx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", conf.ServeAddress)
				if err != nil {
					return err
				}
				log.Info().Str("address", conf.ServeAddress).Msg("serving charts")

				go func() {
					if err := app.Listener(ln); err != nil {
						log.Error().Err(err).Msg("server terminated unexpectedly")
					}
				}()

				go func() {
					if err := gallery.Load(loadCtx, opts); err != nil {
						log.Error().Err(err).Msg("failed to load assembly summaries")
						_ = shutdowner.Shutdown(fx.ExitCode(1))
						return
					}
					refreshwkr.New(conf.RefreshInterval, gallery).Run(loadCtx)
				}()

				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				return app.Shutdown()
			},
		})
	}
}
