package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

// DefaultStaleAfter is how long a stored entry is trusted before a new fetch overwrites it.
const DefaultStaleAfter = 3 * time.Hour

// Repository is the persistence the reconciler writes through.
// Find methods return models.ErrNotFound when nothing matches. InsertEntry
// returns models.ErrConflict when another writer stored the row first.
type Repository interface {
	FindSite(ctx context.Context, id int64) (*models.Site, error)
	CreateSite(ctx context.Context, site models.Site) error
	FindEntry(ctx context.Context, siteID int64, dt time.Time) (*models.ForecastEntry, error)
	InsertEntry(ctx context.Context, entry models.ForecastEntry) error
	UpdateEntry(ctx context.Context, entry models.ForecastEntry) error
}

// Summary counts what one reconcile pass did.
type Summary struct {
	SiteID      int64 `json:"site_id"`
	SiteCreated bool  `json:"site_created"`
	Inserted    int   `json:"inserted"`
	Updated     int   `json:"updated"`
	Skipped     int   `json:"skipped"`
}

// Reconciler upserts a decoded forecast into a Repository.
type Reconciler struct {
	repo       Repository
	staleAfter time.Duration
	now        func() time.Time
}

// NewReconciler returns a reconciler using the wall clock. A non-positive
// staleAfter falls back to DefaultStaleAfter.
func NewReconciler(repo Repository, staleAfter time.Duration) *Reconciler {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Reconciler{
		repo:       repo,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// Reconcile ensures the site exists, then inserts missing entries and rewrites
// stale ones. The first failure aborts the pass; earlier writes are kept.
func (r *Reconciler) Reconcile(ctx context.Context, payload *models.ForecastResponse) (Summary, error) {
	var summary Summary
	if payload == nil {
		return summary, errors.New("reconcile: nil payload")
	}
	if payload.City.ID <= 0 {
		return summary, errors.New("reconcile: response carries no city id")
	}

	siteID := payload.City.ID
	summary.SiteID = siteID

	_, err := r.repo.FindSite(ctx, siteID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		if err := r.repo.CreateSite(ctx, BuildSite(payload.City)); err != nil {
			return summary, fmt.Errorf("create site %d: %w", siteID, err)
		}
		summary.SiteCreated = true
	case err != nil:
		return summary, fmt.Errorf("find site %d: %w", siteID, err)
	}

	now := r.now()
	for i, item := range payload.List {
		entry, err := BuildEntry(siteID, item, now)
		if err != nil {
			return summary, fmt.Errorf("list[%d]: %w", i, err)
		}

		existing, err := r.repo.FindEntry(ctx, siteID, entry.DT)
		switch {
		case errors.Is(err, models.ErrNotFound):
			err := r.repo.InsertEntry(ctx, entry)
			switch {
			case errors.Is(err, models.ErrConflict):
				// a concurrent writer just stored it, so the row is fresh
				summary.Skipped++
			case err != nil:
				return summary, fmt.Errorf("list[%d]: insert: %w", i, err)
			default:
				summary.Inserted++
			}
		case err != nil:
			return summary, fmt.Errorf("list[%d]: find: %w", i, err)
		case NeedsRefresh(*existing, now, r.staleAfter):
			entry.ID = existing.ID
			if err := r.repo.UpdateEntry(ctx, entry); err != nil {
				return summary, fmt.Errorf("list[%d]: update: %w", i, err)
			}
			summary.Updated++
		default:
			summary.Skipped++
		}
	}

	return summary, nil
}
