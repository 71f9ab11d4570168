package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogSettings{Level: "warn", Format: LogFormatJSON}, &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "pushindexer", entry["service"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogSettings{Level: "debug", Format: LogFormatConsole}, &buf)
	logger.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestLog_MasksPassword(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogSettings{Level: "info", Format: LogFormatJSON}, &buf)

	Log(logger, &Settings{
		Elasticsearch: ElasticsearchSettings{
			Host:     "http://localhost:9200",
			Username: "elastic",
			Password: "secret",
		},
	})

	assert.NotContains(t, buf.String(), "secret")
	assert.Contains(t, buf.String(), "****")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}
