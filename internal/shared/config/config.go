package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	Env             string   `env:"ENV" envDefault:"dev"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	RedisURL        string   `env:"REDIS_URL"`

	ObjectStoreType string `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir   string `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	AWSRegion       string `env:"AWS_REGION"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Prefix        string `env:"S3_PREFIX"`
	SSEKMSKeyID     string `env:"S3_SSE_KMS_KEY_ID"`

	GeminiAPIKey          string        `env:"GEMINI_API_KEY"`
	GeminiModels          []string      `env:"GEMINI_MODELS" envSeparator:"," envDefault:"gemini-2.5-flash,gemini-2.0-flash"`
	GenerationMaxAttempts int           `env:"GENERATION_MAX_ATTEMPTS" envDefault:"3"`
	GenerationHTTPTimeout time.Duration `env:"GENERATION_HTTP_TIMEOUT" envDefault:"60s"`
	MarketCacheTTL        time.Duration `env:"MARKET_CACHE_TTL" envDefault:"30m"`

	RateLimitRPS             float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst           int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	RateLimitGenerationRPS   float64 `env:"RATE_LIMIT_GENERATION_RPS" envDefault:"0.5"`
	RateLimitGenerationBurst int     `env:"RATE_LIMIT_GENERATION_BURST" envDefault:"5"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
	FrontendURL        string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// Load reads configuration from the environment, after merging local env files.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	cfg.GeminiModels = trimAll(cfg.GeminiModels)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	if cfg.GenerationMaxAttempts <= 0 {
		cfg.GenerationMaxAttempts = 3
	}
	if cfg.IsProduction() && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("op=config.Load: DATABASE_URL is required in production")
	}
	return cfg, nil
}

// IsDev reports whether the process runs in a developer environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
