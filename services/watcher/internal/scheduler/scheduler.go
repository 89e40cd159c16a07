package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

const cityTimeout = 30 * time.Second

// Refresher fetches and reconciles one city. *forecast.Service implements it.
type Refresher interface {
	Refresh(ctx context.Context, cityID int64) (*models.ForecastResponse, forecast.Summary, error)
}

// Stats aggregates one pass over all configured cities.
type Stats struct {
	Cities       int
	Failed       int
	SitesCreated int
	Inserted     int
	Updated      int
	Skipped      int
}

// Scheduler periodically refreshes the forecast of the configured cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	cityIDs   []int64
	interval  time.Duration
	dryRun    bool

	// base is cancelled on shutdown so running jobs stop early.
	base context.Context
}

// New creates a Scheduler. ctx bounds every job it runs.
func New(ctx context.Context, refresher Refresher, cityIDs []int64, interval time.Duration, dryRun bool) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		cityIDs:   cityIDs,
		interval:  interval,
		dryRun:    dryRun,
		base:      ctx,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately; runs never overlap.
func (s *Scheduler) Start() error {
	if len(s.cityIDs) == 0 {
		log.Println("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		log.Println("scheduler: running forecast refresh job")
		stats := s.RunOnce(s.base)
		log.Printf("scheduler: completed forecast refresh job (cities=%d failed=%d sites_created=%d inserted=%d updated=%d skipped=%d)",
			stats.Cities, stats.Failed, stats.SitesCreated, stats.Inserted, stats.Updated, stats.Skipped)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce refreshes every city concurrently and waits for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) Stats {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		stats = Stats{Cities: len(s.cityIDs)}
	)

	for _, id := range s.cityIDs {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()

			cityCtx, cancel := context.WithTimeout(ctx, cityTimeout)
			defer cancel()

			payload, summary, err := s.refresher.Refresh(cityCtx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				log.Printf("scheduler: refresh failed for city %d: %v", id, err)
				return
			}
			if summary.SiteCreated {
				stats.SitesCreated++
			}
			stats.Inserted += summary.Inserted
			stats.Updated += summary.Updated
			stats.Skipped += summary.Skipped

			if s.dryRun {
				logDryRun(id, payload)
			}
		}()
	}
	wg.Wait()
	return stats
}

func logDryRun(cityID int64, payload *models.ForecastResponse) {
	if payload == nil {
		return
	}
	site := forecast.BuildSite(payload.City)
	log.Printf("dry-run: city %d -> site %q (lat=%.4f lon=%.4f country=%s), %d items",
		cityID, site.Name, site.Latitude, site.Longitude, site.Country, len(payload.List))

	now := time.Now().UTC().Truncate(time.Second)
	for _, item := range payload.List {
		entry, err := forecast.BuildEntry(site.ID, item, now)
		if err != nil {
			log.Printf("dry-run: skipping malformed item: %v", err)
			continue
		}
		log.Printf("dry-run: would upsert site=%d dt=%s temp=%.2f rain3=%s snow3=%s",
			entry.SiteID, entry.DT.Format(time.RFC3339), entry.Temp,
			forecast.FloatPtrString(entry.Rain3), forecast.FloatPtrString(entry.Snow3))
	}
}
