package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterTagsService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("gameserver", &buf, "debug")
	log.Info().Int("slot", 2).Msg("vehicle eliminated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "gameserver", line["service"])
	assert.Equal(t, "vehicle eliminated", line["message"])
	assert.Equal(t, float64(2), line["slot"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("headless", &buf, "warn")
	log.Info().Msg("quiet")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestConfigureWithoutGraylog(t *testing.T) {
	log, closer, err := Configure("gameserver", Options{Level: "error"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())
	assert.NoError(t, closer.Close())
}
