package initializer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallLogger_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := installLogger(&buf, &config.Log{Format: "json", Prefix: "[backoffice]"})
	logger.Info("account opened", "iban", "ES9121000418450200051332")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "account opened", line["msg"])
	assert.Equal(t, "ES9121000418450200051332", line["iban"])
	assert.Same(t, logger, slog.Default())
}

func TestInstallLogger_LevelFilter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	// 4 is warn in charmbracelet/log
	logger := installLogger(&buf, &config.Log{Format: "text", Level: 4})
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
