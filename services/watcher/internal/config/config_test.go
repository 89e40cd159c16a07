package config

import (
	"reflect"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("OPENWEATHERMAP_KEY", "abc123")
	t.Setenv("DATABASE_URL", "sqlite://watcher.db")
	t.Setenv("WATCHER_CITY_IDS", "1851632, 2988507")
	t.Setenv("WATCHER_INTERVAL", "")
	t.Setenv("FORECAST_STALE_AFTER", "")
	t.Setenv("DRY_RUN", "")
}

func TestLoad(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WATCHER_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.CityIDs, []int64{1851632, 2988507}) {
		t.Fatalf("city ids = %v", cfg.CityIDs)
	}
	if cfg.Interval != 30*time.Minute || cfg.StaleAfter != 3*time.Hour || cfg.DryRun {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadRequiredValues(t *testing.T) {
	cases := map[string]string{
		"OPENWEATHERMAP_KEY": "",
		"DATABASE_URL":       "",
		"WATCHER_CITY_IDS":   "",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s is empty", k)
			}
		})
	}
}

func TestLoadDryRunWithoutDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DryRun {
		t.Fatalf("expected dry run")
	}
}

func TestLoadRejectsShortInterval(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WATCHER_INTERVAL", "10s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for 10s interval")
	}
}

func TestLoadRejectsNonPositiveStaleAfter(t *testing.T) {
	for _, v := range []string{"0s", "-1h", "soon"} {
		setBaseEnv(t)
		t.Setenv("FORECAST_STALE_AFTER", v)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for FORECAST_STALE_AFTER=%q", v)
		}
	}
}

func TestParseCityIDs(t *testing.T) {
	ids, err := ParseCityIDs(" 1,2 ,,2, 3")
	if err != nil {
		t.Fatalf("ParseCityIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{1, 2, 3}) {
		t.Fatalf("ids = %v", ids)
	}
	for _, bad := range []string{"abc", "1,-2", "0"} {
		if _, err := ParseCityIDs(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
