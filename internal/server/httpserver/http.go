package httpserver

import (
	"runtime"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/pkg/bininfo"
	"exusiai.dev/drawbank/internal/pkg/middlewares"
	"exusiai.dev/drawbank/internal/pkg/observability"
)

var registerPromOnce sync.Once

func Create(conf *appconfig.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "drawbank",
		ServerHeader:          bininfo.Product(),
		ReadTimeout:           time.Second * 20,
		WriteTimeout:          time.Second * 20,
		IdleTimeout:           time.Second * 60,
		ErrorHandler:          ErrorHandler,
		Immutable:             true,
		DisableStartupMessage: true,
	})

	app.Use(helmet.New(helmet.Config{
		// the chart page loads Plotly from its CDN and draws with an inline script
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.plot.ly; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionPolicy:      "interest-cohort=()",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Msgf("panic: %v\n%s\n", e, buf)
		},
	}))
	app.Use(middlewares.RequestLogger())
	registerPromOnce.Do(func() {
		fiberprom := fiberprometheus.New(observability.ServiceName)
		fiberprom.RegisterAt(app, "/metrics")
		app.Use(fiberprom.Middleware)
	})

	if conf.DevMode {
		log.Info().Msg("Running in DEV mode")
	}

	return app
}
