package testentry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/drawbank/internal/app"
	"exusiai.dev/drawbank/internal/app/appcontext"
)

// Populate builds the application graph against a temporary cache directory and
// fills targets from it.
func Populate(t *testing.T, targets ...any) {
	t.Helper()
	t.Setenv("DRAWBANK_CACHE_DIR", t.TempDir())

	log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))

	opts, err := app.Options(appcontext.Declare(appcontext.EnvTest), fx.Populate(targets...))
	if err != nil {
		t.Fatal(err)
	}
	// for testing, logger is too annoying. therefore, we use a NopLogger here
	opts = append(opts, fx.NopLogger)

	a := fx.New(opts...)
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = a.Stop(context.Background())
	})
}
