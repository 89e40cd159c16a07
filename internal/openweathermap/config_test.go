package openweathermap

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"OPENWEATHERMAP_KEY", "OPENWEATHERMAP_FORECAST_URL", "OPENWEATHERMAP_LANG",
		"OPENWEATHERMAP_UNITS", "OPENWEATHERMAP_MODE", "OPENWEATHERMAP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigRequiresKey(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "OPENWEATHERMAP_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHERMAP_KEY", "abc123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig("abc123")
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHERMAP_KEY", "abc123")
	t.Setenv("OPENWEATHERMAP_LANG", "en")
	t.Setenv("OPENWEATHERMAP_UNITS", "IMPERIAL")
	t.Setenv("OPENWEATHERMAP_MODE", "xml")
	t.Setenv("OPENWEATHERMAP_TIMEOUT", "3s")
	t.Setenv("OPENWEATHERMAP_FORECAST_URL", "https://example.test/forecast")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Lang != "en" || cfg.Units != "imperial" || cfg.Mode != ModeXML || cfg.Timeout != 3*time.Second || cfg.ForecastURL != "https://example.test/forecast" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"OPENWEATHERMAP_MODE":         "csv",
		"OPENWEATHERMAP_UNITS":        "kelvin",
		"OPENWEATHERMAP_TIMEOUT":      "soon",
		"OPENWEATHERMAP_FORECAST_URL": "not a url",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENWEATHERMAP_KEY", "abc123")
			t.Setenv(k, v)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", k, v)
			}
		})
	}
}

func TestConfigStringRedactsKey(t *testing.T) {
	cfg := DefaultConfig("0123456789abcdef")
	s := cfg.String()
	if strings.Contains(s, cfg.Key) {
		t.Fatalf("String leaks key: %s", s)
	}
	if !strings.Contains(s, "01************ef") {
		t.Fatalf("unexpected redaction: %s", s)
	}
}

func TestResolveMode(t *testing.T) {
	cfg := DefaultConfig("k")
	if m, err := cfg.ResolveMode(""); err != nil || m != ModeJSON {
		t.Fatalf("ResolveMode(\"\") = %q, %v", m, err)
	}
	if m, err := cfg.ResolveMode(ModeHTML); err != nil || m != ModeHTML {
		t.Fatalf("ResolveMode(html) = %q, %v", m, err)
	}
	if m, err := cfg.ResolveMode(" XML "); err != nil || m != ModeXML {
		t.Fatalf("ResolveMode(\" XML \") = %q, %v", m, err)
	}
	if _, err := cfg.ResolveMode("csv"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected error for csv")
	}
}
