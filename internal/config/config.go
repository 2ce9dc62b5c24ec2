// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/tripsplit/pkg/money"
)

// DefaultTripName is the name of a trip its owner has not named yet.
const DefaultTripName = "My Trip"

var ErrMissingSecret = errors.New("JWT_SECRET is required outside development")

// Config holds every setting the server reads at startup.
type Config struct {
	Env        string
	Port       int
	DBPath     string
	StaticPath string // empty disables static file serving

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel  string
	LogFormat string

	Currency        string
	DefaultTripName string
	CORSOrigin      string
}

// Development reports whether APP_ENV is "development".
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the environment. Each envFile that exists is loaded first;
// variables already set in the process environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "production"),
		DBPath:          getEnv("DB_PATH", "./data/trips.db"),
		StaticPath:      os.Getenv("STATIC_PATH"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		Currency:        strings.ToUpper(getEnv("CURRENCY", money.DefaultCurrency)),
		DefaultTripName: getEnv("DEFAULT_TRIP_NAME", DefaultTripName),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	if _, err := money.NewFormatter(cfg.Currency); err != nil {
		return nil, fmt.Errorf("invalid CURRENCY: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = "development-only-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
