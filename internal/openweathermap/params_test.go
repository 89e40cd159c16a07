package openweathermap

import (
	"errors"
	"math"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestBuildParamsByCityName(t *testing.T) {
	cfg := DefaultConfig("k")

	cases := []struct {
		name    string
		country string
		want    string
	}{
		{"courbevoie", "fr", "courbevoie,fr"},
		{"courbevoie", "", "courbevoie"},
		{" courbevoie ", " ", "courbevoie"},
	}
	for _, tc := range cases {
		v, err := BuildParams(cfg, ByCityName{Name: tc.name, Country: tc.country}, Options{})
		if err != nil {
			t.Fatalf("BuildParams(%q, %q): %v", tc.name, tc.country, err)
		}
		if got := v.Get("q"); got != tc.want {
			t.Errorf("q = %q, want %q", got, tc.want)
		}
	}
}

func TestBuildParamsDefaultsAndOverrides(t *testing.T) {
	cfg := DefaultConfig("secret")

	v, err := BuildParams(cfg, ByCityID{ID: 1851632}, Options{})
	if err != nil {
		t.Fatalf("BuildParams: %v", err)
	}
	if v.Get("APPID") != "secret" || v.Get("units") != "metric" || v.Get("lang") != "fr" || v.Get("id") != "1851632" {
		t.Fatalf("unexpected defaults: %v", v)
	}
	if v.Has("mode") {
		t.Fatalf("mode belongs to the fetcher, got %q", v.Get("mode"))
	}

	v, err = BuildParams(cfg, ByCityID{ID: 1851632}, Options{Units: "Imperial", Lang: "en"})
	if err != nil {
		t.Fatalf("BuildParams: %v", err)
	}
	if v.Get("units") != "imperial" {
		t.Errorf("units = %q, want imperial", v.Get("units"))
	}
	if v.Get("lang") != "en" {
		t.Errorf("lang = %q, want en", v.Get("lang"))
	}
}

func TestBuildParamsByGeoloc(t *testing.T) {
	cfg := DefaultConfig("k")

	v, err := BuildParams(cfg, ByGeoloc{Lat: ptr(0), Lon: ptr(138.933334)}, Options{})
	if err != nil {
		t.Fatalf("BuildParams: %v", err)
	}
	if v.Get("lat") != "0" || v.Get("lon") != "138.933334" {
		t.Fatalf("unexpected coordinates: lat=%q lon=%q", v.Get("lat"), v.Get("lon"))
	}
}

func TestBuildParamsRejectsMissingInput(t *testing.T) {
	cfg := DefaultConfig("k")

	lookups := map[string]Lookup{
		"nil lookup":     nil,
		"zero city id":   ByCityID{},
		"negative id":    ByCityID{ID: -3},
		"empty name":     ByCityName{Country: "fr"},
		"missing lat":    ByGeoloc{Lon: ptr(2.25)},
		"missing lon":    ByGeoloc{Lat: ptr(48.9)},
		"lat out of box": ByGeoloc{Lat: ptr(91), Lon: ptr(0)},
		"NaN lat":        ByGeoloc{Lat: ptr(math.NaN()), Lon: ptr(2)},
		"NaN lon":        ByGeoloc{Lat: ptr(48.9), Lon: ptr(math.NaN())},
		"infinite lon":   ByGeoloc{Lat: ptr(48.9), Lon: ptr(math.Inf(1))},
	}
	for name, l := range lookups {
		_, err := BuildParams(cfg, l, Options{})
		if !errors.Is(err, ErrInvalidLookup) {
			t.Errorf("%s: expected ErrInvalidLookup, got %v", name, err)
		}
	}

	if _, err := BuildParams(cfg, ByCityID{ID: 1}, Options{Units: "kelvin"}); !errors.Is(err, ErrInvalidLookup) {
		t.Errorf("bad units: expected ErrInvalidLookup, got %v", err)
	}
}
