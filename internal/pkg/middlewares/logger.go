package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an id, echoed in the X-Request-ID response
// header, and logs it once answered.
func RequestLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		id := xid.New().String()
		ctx.Set(HeaderRequestID, id)

		if err := ctx.Next(); err != nil {
			// let the error handler settle the status before logging it
			if herr := ctx.App().ErrorHandler(ctx, err); herr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Debug().
			Str("component", "httpreq").
			Str("request_id", id).
			Str("ip", ctx.IP()).
			Str("method", ctx.Method()).
			Str("url", ctx.OriginalURL()).
			Str("user_agent", ctx.Get(fiber.HeaderUserAgent)).
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", time.Since(start)).
			Msg("received request")
		return nil
	}
}
