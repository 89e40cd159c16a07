package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/openweathermap-forecast/internal/cache"
	"github.com/02loveslollipop/openweathermap-forecast/internal/db"
	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
	"github.com/02loveslollipop/openweathermap-forecast/services/api/config"
	httpserver "github.com/02loveslollipop/openweathermap-forecast/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	log.Printf("provider: %s", cfg.Provider)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store db.Store
	var repo forecast.Repository
	if cfg.DatabaseURL != "" {
		store, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection error: %v", err)
		}
		defer store.Close()
		repo = store
	} else {
		log.Printf("DATABASE_URL not set: forecasts will not be cached")
	}

	var fetcher forecast.Fetcher = openweathermap.NewClient(cfg.Provider)
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer rdb.Close()
		fetcher = cache.New(rdb, fetcher, cfg.CacheTTL)
		log.Printf("response cache enabled (ttl=%s)", cfg.CacheTTL)
	}

	service := forecast.NewService(cfg.Provider, fetcher, repo, cfg.StaleAfter)

	srv := httpserver.New(cfg, service, store)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
