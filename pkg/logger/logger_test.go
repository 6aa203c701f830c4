package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"otro":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_NivelDelLogger(t *testing.T) {
	l := New(Config{Env: "production", Level: "warn", App: "marketplace-api"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
	assert.Equal(t, zerolog.WarnLevel, l.Component("ledger").GetLevel())
}
