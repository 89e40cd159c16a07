package openweathermap

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultForecastURL = "http://api.openweathermap.org/data/2.5/forecast"
	defaultUnits       = "metric"
	defaultLang        = "fr"
	defaultTimeout     = 10 * time.Second
)

var validate = validator.New()

// Config holds the provider settings. It is built once at startup and never
// mutated afterwards; the API key only leaves it through BuildParams.
type Config struct {
	Key         string        `validate:"required"`
	ForecastURL string        `validate:"required,url"`
	Mode        Mode          `validate:"required,oneof=json xml html"`
	Units       string        `validate:"required,oneof=metric imperial standard"`
	Lang        string        `validate:"required"`
	Timeout     time.Duration `validate:"gt=0"`
}

// DefaultConfig returns the provider defaults for the given API key.
func DefaultConfig(key string) Config {
	return Config{
		Key:         key,
		ForecastURL: DefaultForecastURL,
		Mode:        ModeJSON,
		Units:       defaultUnits,
		Lang:        defaultLang,
		Timeout:     defaultTimeout,
	}
}

// LoadConfig reads OPENWEATHERMAP_* variables. Callers load .env files first.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig(strings.TrimSpace(os.Getenv("OPENWEATHERMAP_KEY")))
	if cfg.Key == "" {
		return cfg, errors.New("OPENWEATHERMAP_KEY is required")
	}

	if v := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_FORECAST_URL")); v != "" {
		cfg.ForecastURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_LANG")); v != "" {
		cfg.Lang = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_UNITS")); v != "" {
		cfg.Units = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_MODE")); v != "" {
		m, err := ParseMode(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid OPENWEATHERMAP_MODE: %w", err)
		}
		cfg.Mode = m
	}
	if v := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid OPENWEATHERMAP_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, cfg.Validate()
}

// Validate checks the struct tags above.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid openweathermap config: %w", err)
	}
	return nil
}

// ResolveMode returns m normalized to lower case, or the configured default
// when m is empty.
func (c Config) ResolveMode(m Mode) (Mode, error) {
	pm, err := ParseMode(string(m))
	if err != nil {
		return "", err
	}
	if pm == "" {
		return c.Mode, nil
	}
	return pm, nil
}

// String renders the config for logs with the key redacted.
func (c Config) String() string {
	return fmt.Sprintf("url=%s mode=%s units=%s lang=%s timeout=%s key=%s",
		c.ForecastURL, c.Mode, c.Units, c.Lang, c.Timeout, redactKey(c.Key))
}

func redactKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:2] + strings.Repeat("*", len(key)-4) + key[len(key)-2:]
}
