package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/cachectrl"
	"exusiai.dev/drawbank/internal/pkg/chart"
	"exusiai.dev/drawbank/internal/service"
	"exusiai.dev/drawbank/internal/util/rekuest"
)

type Series struct {
	fx.In

	GalleryService *service.Gallery
}

func RegisterSeries(app *fiber.App, c Series) {
	app.Get("/", c.render(constant.FormatHTML))
	app.Get("/series.json", c.render(constant.FormatJSON))
	app.Get("/series.csv", c.render(constant.FormatCSV))
	app.Get("/series.xlsx", c.render(constant.FormatXLSX))
}

// render draws the loaded tally in format. The `most` and `cumulative` query
// parameters override the options the server was started with.
func (c *Series) render(format string) fiber.Handler {
	r, err := chart.For(format)
	if err != nil {
		panic(err)
	}

	return func(ctx *fiber.Ctx) error {
		var q model.SeriesQuery
		if err := rekuest.ValidQuery(ctx, &q); err != nil {
			return err
		}

		fig, err := c.GalleryService.Figure(q)
		if err != nil {
			return err
		}

		cachectrl.OptIn(ctx, c.GalleryService.LoadedAt())
		ctx.Set(fiber.HeaderContentType, constant.FormatContentTypes[format])
		return r.Render(ctx, fig)
	}
}
