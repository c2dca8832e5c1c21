package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SITEPLAN_DB", "SITEPLAN_LOG_USECASES", "SITEPLAN_LOG_LEVEL",
		"SITEPLAN_HTTP_ADDR", "SITEPLAN_HTTP_READ_TIMEOUT", "SITEPLAN_HTTP_WRITE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	def := Default()
	assert.Equal(t, def, cfg)
	assert.Contains(t, cfg.DBPath, "siteplan.db")
	assert.Equal(t, ":4000", cfg.HTTPAddress)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITEPLAN_DB", "/tmp/site.db")
	t.Setenv("SITEPLAN_LOG_USECASES", "true")
	t.Setenv("SITEPLAN_LOG_LEVEL", "DEBUG")
	t.Setenv("SITEPLAN_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("SITEPLAN_HTTP_READ_TIMEOUT", "2s")
	t.Setenv("SITEPLAN_HTTP_WRITE_TIMEOUT", "1m")

	cfg := Load()
	assert.Equal(t, "/tmp/site.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddress)
	assert.Equal(t, 2*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, time.Minute, cfg.HTTPWriteTimeout)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITEPLAN_LOG_USECASES", "maybe")
	t.Setenv("SITEPLAN_LOG_LEVEL", "loud")
	t.Setenv("SITEPLAN_HTTP_READ_TIMEOUT", "-3s")
	t.Setenv("SITEPLAN_HTTP_WRITE_TIMEOUT", "soon")

	cfg := Load()
	def := Default()
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.Equal(t, def.HTTPReadTimeout, cfg.HTTPReadTimeout)
	assert.Equal(t, def.HTTPWriteTimeout, cfg.HTTPWriteTimeout)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
