package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/db"
	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
	"github.com/02loveslollipop/openweathermap-forecast/services/watcher/internal/config"
	"github.com/02loveslollipop/openweathermap-forecast/services/watcher/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("watcher failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Printf("provider: %s", cfg.Provider)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repo forecast.Repository
	if cfg.DryRun {
		log.Printf("dry-run: forecasts are fetched but not stored (%d cities)", len(cfg.CityIDs))
	} else {
		store, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		repo = store
	}

	service := forecast.NewService(cfg.Provider, openweathermap.NewClient(cfg.Provider), repo, cfg.StaleAfter)
	sched := scheduler.New(ctx, service, cfg.CityIDs, cfg.Interval, cfg.DryRun)

	if cfg.Interval == 0 {
		started := time.Now()
		stats := sched.RunOnce(ctx)
		log.Printf("refreshed %d cities in %s (failed=%d sites_created=%d inserted=%d updated=%d skipped=%d dry-run=%v)",
			stats.Cities, time.Since(started).Round(time.Millisecond), stats.Failed,
			stats.SitesCreated, stats.Inserted, stats.Updated, stats.Skipped, cfg.DryRun)
		if stats.Failed > 0 {
			return fmt.Errorf("%d of %d cities failed", stats.Failed, stats.Cities)
		}
		return nil
	}

	if err := sched.Start(); err != nil {
		return err
	}
	log.Printf("watcher scheduled every %s for %d cities", cfg.Interval, len(cfg.CityIDs))

	<-ctx.Done()
	sched.Stop()
	log.Printf("watcher stopped")
	return nil
}
