package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls map[int64]int
	fail  map[int64]bool
	ran   chan int64
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: map[int64]int{}, fail: map[int64]bool{}, ran: make(chan int64, 64)}
}

func (f *fakeRefresher) Refresh(_ context.Context, cityID int64) (*models.ForecastResponse, forecast.Summary, error) {
	f.mu.Lock()
	f.calls[cityID]++
	fail := f.fail[cityID]
	f.mu.Unlock()

	select {
	case f.ran <- cityID:
	default:
	}

	if fail {
		return nil, forecast.Summary{}, errors.New("fetching error from openweathermap")
	}
	payload := &models.ForecastResponse{
		City: models.City{ID: cityID, Name: "Shuzenji", Coord: models.Coord{Lat: 34.966671, Lon: 138.933334}, Country: "JP"},
		List: []models.Item{{Dt: 1406106000, Weather: []models.Condition{{ID: 804, Main: "Clouds"}}}},
	}
	return payload, forecast.Summary{SiteID: cityID, SiteCreated: true, Inserted: 2, Skipped: 1}, nil
}

func TestRunOnceAggregates(t *testing.T) {
	r := newFakeRefresher()
	r.fail[3] = true

	s := New(context.Background(), r, []int64{1, 2, 3}, 0, true)
	stats := s.RunOnce(context.Background())

	want := Stats{Cities: 3, Failed: 1, SitesCreated: 2, Inserted: 4, Skipped: 2}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	for _, id := range []int64{1, 2, 3} {
		if r.calls[id] != 1 {
			t.Fatalf("city %d refreshed %d times", id, r.calls[id])
		}
	}
}

func TestStartRunsImmediately(t *testing.T) {
	r := newFakeRefresher()
	s := New(context.Background(), r, []int64{1851632}, time.Hour, false)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	select {
	case id := <-r.ran:
		if id != 1851632 {
			t.Fatalf("unexpected city %d", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestStartWithoutCities(t *testing.T) {
	s := New(context.Background(), newFakeRefresher(), nil, time.Hour, false)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
