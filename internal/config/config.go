// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the splitledger commands read.
type Config struct {
	DBPath    string
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string
	LogFormat string
}

// Defaults used when a variable is unset.
const (
	DefaultDBPath    = "./data/ledger.db"
	DefaultAddr      = ":8080"
	DefaultTokenTTL  = 24 * time.Hour
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ErrMissingSecret is returned by Validate when no JWT secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Load reads .env files (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", DefaultDBPath),
		Addr:      getEnv("ADDR", DefaultAddr),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  DefaultTokenTTL,
		LogLevel:  getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat: getEnv("LOG_FORMAT", DefaultLogFormat),
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive (got %s)", c.TokenTTL)
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
