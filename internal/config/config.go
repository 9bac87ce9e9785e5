// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTokenTTL is the lifetime of issued auth tokens.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL    string
	ListenAddr     string
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	LogJSON        bool
	CurrencySymbol string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		ListenAddr:     ":5001",
		TokenTTL:       DefaultTokenTTL,
		CurrencySymbol: "₹",
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if h, err := strconv.Atoi(ttlStr); err == nil && h > 0 {
			cfg.TokenTTL = time.Duration(h) * time.Hour
		}
	}
	if sym := os.Getenv("CURRENCY_SYMBOL"); sym != "" {
		cfg.CurrencySymbol = sym
	}
	cfg.LogJSON = os.Getenv("LOG_JSON") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
