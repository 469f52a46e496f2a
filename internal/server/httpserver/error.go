package httpserver

import (
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

var statusCodes = map[string]int{
	bankerr.CodeInvalidOptions:     fiber.StatusBadRequest,
	bankerr.CodeUnknownGroupFilter: fiber.StatusBadRequest,
	bankerr.CodeFetchFailed:        fiber.StatusBadGateway,
	bankerr.CodeNotReady:           fiber.StatusServiceUnavailable,
}

func handleCustomError(ctx *fiber.Ctx, status int, e *bankerr.BankError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	// Add extra details if needed
	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(status).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var e *bankerr.BankError
	if errors.As(err, &e) {
		status, ok := statusCodes[e.ErrorCode]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return handleCustomError(ctx, status, e)
	}

	status := fiber.StatusInternalServerError
	re := bankerr.New("INTERNAL_ERROR", "internal server error")
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
		re = bankerr.New("UNKNOWN_ERROR", fe.Message)
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().
			Stack().
			Err(err).
			Str("method", ctx.Method()).
			Str("path", ctx.Path()).
			Int("status", status).
			Msg("Internal Server Error")
		sentry.CaptureException(err)
	}

	return handleCustomError(ctx, status, re)
}
