package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/pkg/bininfo"
	"exusiai.dev/drawbank/internal/pkg/cachectrl"
	"exusiai.dev/drawbank/internal/service"
)

type Meta struct {
	fx.In

	GalleryService *service.Gallery
}

func RegisterMeta(app *fiber.App, c Meta) {
	meta := app.Group("/_")
	meta.Get("/bininfo", c.BinInfo)
	meta.Get("/health", c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(bininfo.Info())
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	cachectrl.OptOut(ctx)
	if err := c.GalleryService.Status(); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status": "ok",
	})
}
