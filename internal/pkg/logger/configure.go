package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"exusiai.dev/drawbank/internal/app/appconfig"
)

func Configure(conf *appconfig.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var stdout io.Writer
	if conf.LogJsonStdout {
		stdout = os.Stderr
	} else {
		stdout = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		}
	}

	writers := []io.Writer{stdout}
	if conf.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("run", xid.New().String()).
		Logger().
		Level(Level(conf))
}

// Level is info by default, debug when asked to be verbose, and trace in dev mode.
func Level(conf *appconfig.Config) zerolog.Level {
	switch {
	case conf.DevMode:
		return zerolog.TraceLevel
	case conf.AppContext.Verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
