package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// fxLogger writes fx lifecycle events as structured zerolog entries. Successful
// events go to debug so a CLI run stays quiet; failures are errors.
type fxLogger struct {
	l zerolog.Logger
}

var _ fxevent.Logger = (*fxLogger)(nil)

func Fx() fxevent.Logger {
	return &fxLogger{
		l: log.Logger.With().Str("component", "fx").Logger(),
	}
}

func (f *fxLogger) event(err error) *zerolog.Event {
	if err != nil {
		return f.l.Error().Err(err)
	}
	return f.l.Debug()
}

func (f *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Supplied:
		f.event(e.Err).Str("type", e.TypeName).Str("module", e.ModuleName).Msg("supplied")
	case *fxevent.Provided:
		f.event(e.Err).Str("constructor", e.ConstructorName).Strs("outputs", e.OutputTypeNames).Str("module", e.ModuleName).Msg("provided")
	case *fxevent.Invoked:
		l := f.event(e.Err).Str("function", e.FunctionName).Str("module", e.ModuleName)
		if e.Err != nil {
			l = l.Str("trace", e.Trace)
		}
		l.Msg("invoked")
	case *fxevent.OnStartExecuted:
		f.event(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		f.event(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.RolledBack:
		f.event(e.Err).Msg("start failed, rolled back")
	case *fxevent.Started:
		f.event(e.Err).Msg("started")
	case *fxevent.Stopping:
		f.l.Debug().Str("signal", e.Signal.String()).Msg("stopping")
	case *fxevent.Stopped:
		f.event(e.Err).Msg("stopped")
	case *fxevent.LoggerInitialized:
		f.event(e.Err).Str("constructor", e.ConstructorName).Msg("logger initialized")
	}
}
