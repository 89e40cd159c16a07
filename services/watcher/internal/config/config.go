package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
)

// Config holds runtime configuration for the watcher service.
type Config struct {
	Provider    openweathermap.Config
	DatabaseURL string
	CityIDs     []int64
	Interval    time.Duration
	StaleAfter  time.Duration
	DryRun      bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{StaleAfter: forecast.DefaultStaleAfter}

	provider, err := openweathermap.LoadConfig()
	if err != nil {
		return cfg, err
	}
	cfg.Provider = provider

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		return cfg, errors.New("DATABASE_URL is required")
	}

	ids, err := ParseCityIDs(os.Getenv("WATCHER_CITY_IDS"))
	if err != nil {
		return cfg, fmt.Errorf("invalid WATCHER_CITY_IDS: %w", err)
	}
	if len(ids) == 0 {
		return cfg, errors.New("WATCHER_CITY_IDS is required")
	}
	cfg.CityIDs = ids

	if v := strings.TrimSpace(os.Getenv("WATCHER_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_INTERVAL: %w", err)
		}
		if d < time.Minute {
			return cfg, fmt.Errorf("invalid WATCHER_INTERVAL: %s is shorter than 1m", d)
		}
		cfg.Interval = d
	}

	if v := strings.TrimSpace(os.Getenv("FORECAST_STALE_AFTER")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid FORECAST_STALE_AFTER: %s", v)
		}
		cfg.StaleAfter = d
	}

	return cfg, nil
}

// ParseCityIDs splits a comma separated list, dropping blanks and duplicates.
func ParseCityIDs(raw string) ([]int64, error) {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("bad city id %q", part)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
