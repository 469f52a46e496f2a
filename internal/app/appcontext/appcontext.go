package appcontext

const (
	EnvCLI Env = iota
	EnvServer
	EnvTest
)

type Env int

type Ctx struct {
	Env Env

	// Verbose raises the log level to debug regardless of configuration.
	Verbose bool
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}

func (c Ctx) WithVerbose(verbose bool) Ctx {
	c.Verbose = verbose
	return c
}

func (e Env) String() string {
	switch e {
	case EnvCLI:
		return "cli"
	case EnvServer:
		return "server"
	case EnvTest:
		return "test"
	}
	return "unknown"
}
