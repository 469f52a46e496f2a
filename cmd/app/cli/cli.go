package cli

import (
	"context"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/app"
	"exusiai.dev/drawbank/internal/app/appcontext"
)

// Context declares the application context of a command invocation.
func Context(c *cli.Context) appcontext.Ctx {
	return appcontext.Declare(appcontext.EnvCLI).WithVerbose(c.Bool("verbose"))
}

func Start(ctx appcontext.Ctx, module fx.Option) error {
	a, err := app.New(ctx, module)
	if err != nil {
		return err
	}
	return a.Start(context.Background())
}

// DepsFn returns a function that builds the application graph of a command and
// populates T from it.
func DepsFn[T any]() func(c *cli.Context) (T, error) {
	return func(c *cli.Context) (T, error) {
		var deps T
		err := Start(Context(c), fx.Populate(&deps))
		return deps, err
	}
}
