package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"cardvault"`

	// JWT Configuration
	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`
	JWTIssuer    string `env:"JWT_ISSUER" envDefault:"cardvault-auth-service"`
	// Sessions are long lived: collectors sync from a mobile client that should
	// not force a re-login for a month.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"720h"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt_secret_key is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, errors.New("mongodb_uri is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 720 * time.Hour
	}

	return cfg, nil
}
