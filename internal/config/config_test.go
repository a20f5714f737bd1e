package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"TELEGRAM_BOT_TOKEN", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"GEMINI_API_VERSION", "GEMINI_TEMPERATURE", "LOG_LEVEL", "DEBUG", "PREFER_IPV4",
	"MAX_CONCURRENT", "REQUEST_TIMEOUT_SECONDS", "HTTP_TIMEOUT_SECONDS",
	"SESSION_TTL_MINUTES", "WEB_ADDR", "WEB_GENERATE_PER_MINUTE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, float32(0.7), cfg.GeminiTemperature)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.PreferIPv4)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, 10, cfg.WebGeneratePerMinute)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "  secret  ")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("GEMINI_TEMPERATURE", "1.2")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PREFER_IPV4", "false")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("WEB_GENERATE_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.InDelta(t, 1.2, cfg.GeminiTemperature, 1e-6)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.PreferIPv4)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.WebGeneratePerMinute)
}

func TestLoadClampsTemperature(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_TEMPERATURE", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, float32(0.7), cfg.GeminiTemperature)

	t.Setenv("GEMINI_TEMPERATURE", "-0.5")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, float32(0.7), cfg.GeminiTemperature)
}

func TestLoadAllowsZeroTemperature(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_TEMPERATURE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.GeminiTemperature)
}
