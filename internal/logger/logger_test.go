package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/deppfellow/museum-mailer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_WithoutLicense(t *testing.T) {
	ls := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, ls.GetApplication())
	assert.NotPanics(t, ls.Shutdown)
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(&buf, cfg, nil)

	log.Info().Str("to", "visitor@example.com").Msg("email sent")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "museum-mailer", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, "email sent", line["message"])
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(&buf, cfg, nil)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	var buf bytes.Buffer
	log := WithTraceContext(newLogger(&buf, cfg, nil), nil)

	log.Info().Msg("no trace")
	assert.NotContains(t, buf.String(), "trace.id")
}

func TestNewLogger_FileOutput(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "mailer.log")

	ls := NewLoggerService(cfg)

	var buf bytes.Buffer
	log := newLogger(&buf, cfg, ls)
	log.Warn().Str("template", "audio-booth").Msg("provider slow")
	ls.Shutdown()

	data, err := os.ReadFile(cfg.Logging.FilePath)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "provider slow", line["message"])
	assert.Equal(t, "audio-booth", line["template"])

	assert.Contains(t, buf.String(), "provider slow")
	assert.NotContains(t, buf.String(), `"message"`)
}
