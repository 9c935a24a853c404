package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"5001"`
	DataDir   string `env:"DATA_DIR" default:"dataChatBot"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	CORSAllowOrigins string  `env:"CORS_ALLOW_ORIGINS" default:"*"`
	QueryRateLimit   float64 `env:"QUERY_RATE_LIMIT" default:"5"`
	QueryRateBurst   int     `env:"QUERY_RATE_BURST" default:"10"`

	// Optional collaborators. Empty means the feature is disabled.
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisURL     string `env:"REDIS_URL"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// PIIEncryptionKey is a hex AES-256 key for phone numbers and parent NIKs.
	PIIEncryptionKey string `env:"PII_ENCRYPTION_KEY"`

	OpenAIBaseURL   string  `env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel     string  `env:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	OpenAIMaxTokens int     `env:"OPENAI_MAX_TOKENS" default:"1200"`
	OpenAITemp      float64 `env:"OPENAI_TEMPERATURE" default:"0.7"`
	LLMFallback     bool    `env:"LLM_FALLBACK" default:"false"`

	InsightCacheTTL time.Duration `env:"INSIGHT_CACHE_TTL" default:"10m"`

	// DatasetReloadInterval re-reads the CSV files periodically. Zero disables it.
	DatasetReloadInterval time.Duration `env:"DATASET_RELOAD_INTERVAL" default:"0s"`

	// DatasetSeed seeds the dummy dataset and the answer randomizer. Zero means time-based.
	DatasetSeed uint64 `env:"DATASET_SEED" default:"0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CORSOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return errors.New("DATA_DIR must not be empty")
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.QueryRateLimit <= 0 {
		return errors.New("QUERY_RATE_LIMIT must be positive")
	}
	if cfg.QueryRateBurst < 1 {
		return errors.New("QUERY_RATE_BURST must be at least 1")
	}

	if cfg.LLMFallback && cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required when LLM_FALLBACK is enabled")
	}
	if cfg.OpenAIAPIKey != "" {
		if _, err := url.ParseRequestURI(cfg.OpenAIBaseURL); err != nil {
			return fmt.Errorf("OPENAI_BASE_URL must be a valid URL: %w", err)
		}
		if cfg.OpenAIMaxTokens < 1 {
			return errors.New("OPENAI_MAX_TOKENS must be at least 1")
		}
		if cfg.OpenAITemp < 0 || cfg.OpenAITemp > 2 {
			return errors.New("OPENAI_TEMPERATURE must be between 0 and 2")
		}
	}

	if cfg.PIIEncryptionKey != "" && len(cfg.PIIEncryptionKey) != 64 {
		return errors.New("PII_ENCRYPTION_KEY must be 64 hex characters")
	}

	if cfg.InsightCacheTTL <= 0 {
		return errors.New("INSIGHT_CACHE_TTL must be positive")
	}
	if cfg.DatasetReloadInterval < 0 {
		return errors.New("DATASET_RELOAD_INTERVAL must not be negative")
	}

	return nil
}
