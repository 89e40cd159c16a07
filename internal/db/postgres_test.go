package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

func TestPostgresRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewPostgres(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer s.Close()

	siteID := time.Now().UnixNano() % 1_000_000_000
	t.Cleanup(func() {
		_, _ = s.pool.Exec(context.Background(), "DELETE FROM weathersites WHERE id = $1", siteID)
	})

	if _, err := s.FindSite(ctx, siteID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.CreateSite(ctx, models.Site{ID: siteID, Name: "Shuzenji", Latitude: 34.966671, Longitude: 138.933334, Country: "JP"}); err != nil {
		t.Fatalf("CreateSite: %v", err)
	}

	dt := time.Unix(1406106000, 0).UTC()
	refreshed := time.Now().UTC().Truncate(time.Second)
	e := models.ForecastEntry{SiteID: siteID, DT: dt, Temp: 298.77, WeatherMain: "Clouds", Refreshed: refreshed}
	if err := s.InsertEntry(ctx, e); err != nil {
		t.Fatalf("InsertEntry: %v", err)
	}
	if err := s.InsertEntry(ctx, e); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("InsertEntry duplicate: expected ErrConflict, got %v", err)
	}

	e.Temp = 300
	if err := s.UpdateEntry(ctx, e); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	entries, err := s.ListEntries(ctx, models.EntryQuery{SiteID: siteID})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Temp != 300 || !entries[0].DT.Equal(dt) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
