package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "DATA_DIR", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ALLOW_ORIGINS", "QUERY_RATE_LIMIT", "QUERY_RATE_BURST",
		"DATABASE_URL", "REDIS_URL", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"OPENAI_MODEL", "OPENAI_MAX_TOKENS", "OPENAI_TEMPERATURE", "LLM_FALLBACK",
		"INSIGHT_CACHE_TTL", "DATASET_RELOAD_INTERVAL", "DATASET_SEED", "PII_ENCRYPTION_KEY",
	} {
		// Register restore via Setenv, then unset so defaults apply.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "dataChatBot", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5.0, cfg.QueryRateLimit)
	assert.Equal(t, 10, cfg.QueryRateBurst)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, 10*time.Minute, cfg.InsightCacheTTL)
	assert.False(t, cfg.LLMEnabled())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Zero(t, cfg.DatasetReloadInterval)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_FALLBACK", "true")
	t.Setenv("INSIGHT_CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.True(t, cfg.LLMEnabled())
	assert.True(t, cfg.LLMFallback)
	assert.Equal(t, time.Hour, cfg.InsightCacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, `LOG_FORMAT must be text or json, got "xml"`},
		{"zero rate", map[string]string{"QUERY_RATE_LIMIT": "0"}, "QUERY_RATE_LIMIT must be positive"},
		{"zero burst", map[string]string{"QUERY_RATE_BURST": "0"}, "QUERY_RATE_BURST must be at least 1"},
		{"fallback without key", map[string]string{"LLM_FALLBACK": "true"}, "OPENAI_API_KEY is required when LLM_FALLBACK is enabled"},
		{"temperature out of range", map[string]string{"OPENAI_API_KEY": "sk", "OPENAI_TEMPERATURE": "3"}, "OPENAI_TEMPERATURE must be between 0 and 2"},
		{"negative ttl", map[string]string{"INSIGHT_CACHE_TTL": "-1s"}, "INSIGHT_CACHE_TTL must be positive"},
		{"short pii key", map[string]string{"PII_ENCRYPTION_KEY": "abcd"}, "PII_ENCRYPTION_KEY must be 64 hex characters"},
		{"negative reload interval", map[string]string{"DATASET_RELOAD_INTERVAL": "-1m"}, "DATASET_RELOAD_INTERVAL must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowOrigins: " http://localhost:5173, https://mindagrow.id ,,"}
	assert.Equal(t, []string{"http://localhost:5173", "https://mindagrow.id"}, cfg.CORSOrigins())
}
