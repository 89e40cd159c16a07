package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
)

const fetchErrorMessage = "Fetching error from Openweathermap"

// Result is the envelope returned by the public lookups.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// Err keeps the underlying error for status mapping and server-side logs.
	Err error `json:"-"`
}

// Fetcher performs the outbound request. *openweathermap.Client and the
// Redis cache both satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, params url.Values, mode openweathermap.Mode) (*openweathermap.Response, error)
}

// Service runs the lookup pipeline: build params, fetch, decode and, for JSON
// replies with a repository configured, reconcile into storage.
type Service struct {
	cfg        openweathermap.Config
	fetcher    Fetcher
	reconciler *Reconciler
}

// NewService wires the pipeline. A nil repo disables persistence.
func NewService(cfg openweathermap.Config, fetcher Fetcher, repo Repository, staleAfter time.Duration) *Service {
	s := &Service{cfg: cfg, fetcher: fetcher}
	if repo != nil {
		s.reconciler = NewReconciler(repo, staleAfter)
	}
	return s
}

// Persists reports whether fetched forecasts are written to storage.
func (s *Service) Persists() bool {
	return s.reconciler != nil
}

func (s *Service) GetWeatherByCityID(ctx context.Context, cityID int64, opts openweathermap.Options) Result {
	return s.lookup(ctx, openweathermap.ByCityID{ID: cityID}, opts)
}

func (s *Service) GetWeatherByCityName(ctx context.Context, name, country string, opts openweathermap.Options) Result {
	return s.lookup(ctx, openweathermap.ByCityName{Name: name, Country: country}, opts)
}

func (s *Service) GetWeatherByGeoloc(ctx context.Context, lat, lon *float64, opts openweathermap.Options) Result {
	return s.lookup(ctx, openweathermap.ByGeoloc{Lat: lat, Lon: lon}, opts)
}

// Refresh fetches the JSON forecast for cityID and reconciles it. Unlike the
// lookups it reports plain errors, for batch callers.
func (s *Service) Refresh(ctx context.Context, cityID int64) (*models.ForecastResponse, Summary, error) {
	data, summary, err := s.run(ctx, openweathermap.ByCityID{ID: cityID}, openweathermap.Options{Mode: openweathermap.ModeJSON})
	if err != nil {
		return nil, summary, err
	}
	payload, _ := data.(*models.ForecastResponse)
	return payload, summary, nil
}

func (s *Service) lookup(ctx context.Context, lookup openweathermap.Lookup, opts openweathermap.Options) Result {
	data, _, err := s.run(ctx, lookup, opts)
	if err != nil {
		return failure(err)
	}
	return Result{Success: true, Data: data}
}

func (s *Service) run(ctx context.Context, lookup openweathermap.Lookup, opts openweathermap.Options) (any, Summary, error) {
	mode, err := s.cfg.ResolveMode(opts.Mode)
	if err != nil {
		return nil, Summary{}, err
	}

	params, err := openweathermap.BuildParams(s.cfg, lookup, opts)
	if err != nil {
		return nil, Summary{}, err
	}

	resp, err := s.fetcher.Fetch(ctx, params, mode)
	if err != nil {
		return nil, Summary{}, err
	}

	data, err := openweathermap.Decode(resp)
	if err != nil {
		return nil, Summary{}, err
	}

	payload, ok := data.(*models.ForecastResponse)
	if !ok || s.reconciler == nil {
		return data, Summary{}, nil
	}

	summary, err := s.reconciler.Reconcile(ctx, payload)
	if err != nil {
		return nil, summary, fmt.Errorf("reconcile: %w", err)
	}
	return payload, summary, nil
}

func failure(err error) Result {
	msg := err.Error()
	if errors.Is(err, openweathermap.ErrFetch) {
		msg = fetchErrorMessage
	}
	return Result{Success: false, Error: msg, Err: err}
}
