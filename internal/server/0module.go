package server

import (
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/server/httpserver"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create))
}
