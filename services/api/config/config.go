package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/openweathermap-forecast/internal/cache"
	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	Provider     openweathermap.Config
	DatabaseURL  string
	RedisURL     string
	CacheTTL     time.Duration
	StaleAfter   time.Duration
	Port         int
	BearerToken  string
	DefaultLimit int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		CacheTTL:     cache.DefaultTTL,
		StaleAfter:   forecast.DefaultStaleAfter,
		Port:         8080,
		DefaultLimit: 200,
	}

	provider, err := openweathermap.LoadConfig()
	if err != nil {
		return cfg, err
	}
	cfg.Provider = provider

	// optional: without a database the API serves live lookups only
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	if v := strings.TrimSpace(os.Getenv("CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid CACHE_TTL: %s", v)
		}
		cfg.CacheTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("FORECAST_STALE_AFTER")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid FORECAST_STALE_AFTER: %s", v)
		}
		cfg.StaleAfter = d
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
