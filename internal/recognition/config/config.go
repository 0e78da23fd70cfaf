package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the recognition module. The API key is
// optional at startup so the rest of the service can run without recognition;
// /api/test reports whether it is set.
type Config struct {
	APIKey     string `env:"ANTHROPIC_API_KEY"`
	BaseURL    string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	APIVersion string `env:"ANTHROPIC_VERSION" envDefault:"2023-06-01"`

	Model            string        `env:"RECOGNITION_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	DefaultMaxTokens int           `env:"RECOGNITION_MAX_TOKENS" envDefault:"2000"`
	MaxPayloadBytes  int           `env:"RECOGNITION_MAX_PAYLOAD_BYTES" envDefault:"20000000"`
	RequestTimeout   time.Duration `env:"RECOGNITION_TIMEOUT" envDefault:"60s"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load recognition configuration from environment: " + err.Error())
	}

	if cfg.DefaultMaxTokens <= 0 {
		cfg.DefaultMaxTokens = 2000
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = 20000000
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	return cfg, nil
}
