package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects and ensures the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	batch := &pgx.Batch{}
	for _, stmt := range postgresSchema {
		batch.Queue(stmt)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range postgresSchema {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close releases the pool resources.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

const pgSelectSiteSQL = `
    SELECT id, name, latitude, longitude, country, created_at
    FROM weathersites
`

func (s *PostgresStore) FindSite(ctx context.Context, id int64) (*models.Site, error) {
	var site models.Site
	err := s.pool.QueryRow(ctx, pgSelectSiteSQL+" WHERE id = $1", id).Scan(
		&site.ID,
		&site.Name,
		&site.Latitude,
		&site.Longitude,
		&site.Country,
		&site.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &site, nil
}

func (s *PostgresStore) CreateSite(ctx context.Context, site models.Site) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO weathersites (id, name, latitude, longitude, country, created_at)
VALUES ($1,$2,$3,$4,$5,NOW())
ON CONFLICT (id) DO NOTHING`,
		site.ID, site.Name, site.Latitude, site.Longitude, site.Country)
	return err
}

// ListSites returns all cached sites.
func (s *PostgresStore) ListSites(ctx context.Context) ([]models.Site, error) {
	rows, err := s.pool.Query(ctx, pgSelectSiteSQL+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]models.Site, 0)
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.Country, &site.CreatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *PostgresStore) FindEntry(ctx context.Context, siteID int64, dt time.Time) (*models.ForecastEntry, error) {
	var e models.ForecastEntry
	row := s.pool.QueryRow(ctx,
		"SELECT "+selectEntryColumns()+" FROM weatherdatas WHERE weathersite_id = $1 AND dt = $2",
		siteID, dt.UTC())
	if err := row.Scan(entryScanDest(&e, &e.DT, &e.Refreshed)...); err != nil {
		return nil, notFound(err)
	}
	e.DT = e.DT.UTC()
	e.Refreshed = e.Refreshed.UTC()
	return &e, nil
}

func (s *PostgresStore) InsertEntry(ctx context.Context, e models.ForecastEntry) error {
	sql := "INSERT INTO weatherdatas (" + insertEntryColumns() + ") VALUES (" +
		pgPlaceholders(1, len(entryColumns)+3) + ") ON CONFLICT (weathersite_id, dt) DO NOTHING"

	args := append([]any{e.SiteID, e.DT.UTC()}, entryFields(e)...)
	args = append(args, e.Refreshed.UTC())

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrConflict
	}
	return nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, e models.ForecastEntry) error {
	n := len(entryColumns) + 1
	sql := "UPDATE weatherdatas SET " +
		setClause(func(i int) string { return "$" + strconv.Itoa(i+1) }) +
		" WHERE weathersite_id = $" + strconv.Itoa(n+1) + " AND dt = $" + strconv.Itoa(n+2)

	args := append(entryFields(e), e.Refreshed.UTC(), e.SiteID, e.DT.UTC())

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListEntries returns a site's entries ordered by forecast time.
func (s *PostgresStore) ListEntries(ctx context.Context, q models.EntryQuery) ([]models.ForecastEntry, error) {
	conditions := []string{"weathersite_id = $1"}
	args := []any{q.SiteID}

	if q.Since != nil {
		args = append(args, q.Since.UTC())
		conditions = append(conditions, "dt >= $"+strconv.Itoa(len(args)))
	}
	if q.Until != nil {
		args = append(args, q.Until.UTC())
		conditions = append(conditions, "dt <= $"+strconv.Itoa(len(args)))
	}
	limit := ""
	if q.Limit > 0 {
		args = append(args, q.Limit)
		limit = " LIMIT $" + strconv.Itoa(len(args))
	}

	sql := "SELECT " + selectEntryColumns() + " FROM weatherdatas WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY dt" + limit

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ForecastEntry, 0)
	for rows.Next() {
		var e models.ForecastEntry
		if err := rows.Scan(entryScanDest(&e, &e.DT, &e.Refreshed)...); err != nil {
			return nil, err
		}
		e.DT = e.DT.UTC()
		e.Refreshed = e.Refreshed.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}
