package openweathermap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig("0123456789abcdef")
	cfg.ForecastURL = endpoint
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestFetchSendsParamsAndMode(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cnt":0,"list":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	params, err := BuildParams(cfg, ByCityName{Name: "courbevoie", Country: "fr"}, Options{})
	if err != nil {
		t.Fatalf("BuildParams: %v", err)
	}

	resp, err := NewClient(cfg).Fetch(context.Background(), params, ModeJSON)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Mode != ModeJSON {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.HasPrefix(resp.ContentType, "application/json") {
		t.Fatalf("content type = %q", resp.ContentType)
	}
	if got.Get("q") != "courbevoie,fr" || got.Get("mode") != "json" || got.Get("APPID") != cfg.Key {
		t.Fatalf("unexpected query: %v", got)
	}
	if params.Has("mode") {
		t.Fatalf("Fetch must not mutate the caller's params")
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Fetch(context.Background(), url.Values{"id": {"1"}}, ModeJSON)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	cfg := testConfig(endpoint)
	params := url.Values{"APPID": {cfg.Key}, "id": {"1"}}
	_, err := NewClient(cfg).Fetch(context.Background(), params, ModeJSON)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if strings.Contains(err.Error(), cfg.Key) {
		t.Fatalf("error leaks the api key: %v", err)
	}
}

func TestFetchRejectsInvalidMode(t *testing.T) {
	_, err := NewClient(testConfig("http://127.0.0.1:1")).Fetch(context.Background(), url.Values{}, Mode("csv"))
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}
