package logger

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	"go.uber.org/fx/fxevent"
)

func TestFx(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	l := Fx()

	l.LogEvent(&fxevent.Provided{ConstructorName: "service.NewParser()", OutputTypeNames: []string{"*service.Parser"}})
	assert.Empty(t, buf.String(), "successful events are debug")

	l.LogEvent(&fxevent.Invoked{FunctionName: "infra.SentryInit()", Err: errors.New("bad dsn"), Trace: "app.go:42"})
	entry := gjson.Parse(buf.String())
	assert.Equal(t, "error", entry.Get("level").String())
	assert.Equal(t, "fx", entry.Get("component").String())
	assert.Equal(t, "infra.SentryInit()", entry.Get("function").String())
	assert.Equal(t, "bad dsn", entry.Get("error").String())
	assert.Equal(t, "app.go:42", entry.Get("trace").String())
}
