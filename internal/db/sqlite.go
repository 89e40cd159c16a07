package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

// SQLiteStore implements Store with the pure Go modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	for _, stmt := range append([]string{"PRAGMA foreign_keys = ON"}, sqliteSchema...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteSelectSiteSQL = `SELECT id, name, latitude, longitude, country, created_at FROM weathersites`

func (s *SQLiteStore) FindSite(ctx context.Context, id int64) (*models.Site, error) {
	var site models.Site
	var created int64
	err := s.db.QueryRowContext(ctx, sqliteSelectSiteSQL+` WHERE id = ?`, id).
		Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.Country, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	site.CreatedAt = time.Unix(created, 0).UTC()
	return &site, nil
}

func (s *SQLiteStore) CreateSite(ctx context.Context, site models.Site) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weathersites (id, name, latitude, longitude, country, created_at) VALUES (?,?,?,?,?,?)
ON CONFLICT (id) DO NOTHING`,
		site.ID, site.Name, site.Latitude, site.Longitude, site.Country, time.Now().Unix())
	return err
}

func (s *SQLiteStore) ListSites(ctx context.Context) ([]models.Site, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectSiteSQL+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]models.Site, 0)
	for rows.Next() {
		var site models.Site
		var created int64
		if err := rows.Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.Country, &created); err != nil {
			return nil, err
		}
		site.CreatedAt = time.Unix(created, 0).UTC()
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *SQLiteStore) FindEntry(ctx context.Context, siteID int64, dt time.Time) (*models.ForecastEntry, error) {
	var e models.ForecastEntry
	var dtUnix, refreshed int64
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectEntryColumns()+" FROM weatherdatas WHERE weathersite_id = ? AND dt = ?",
		siteID, dt.Unix())
	err := row.Scan(entryScanDest(&e, &dtUnix, &refreshed)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.DT = time.Unix(dtUnix, 0).UTC()
	e.Refreshed = time.Unix(refreshed, 0).UTC()
	return &e, nil
}

func (s *SQLiteStore) InsertEntry(ctx context.Context, e models.ForecastEntry) error {
	query := "INSERT INTO weatherdatas (" + insertEntryColumns() + ") VALUES (" +
		sqlitePlaceholders(len(entryColumns)+3) + ") ON CONFLICT (weathersite_id, dt) DO NOTHING"

	args := append([]any{e.SiteID, e.DT.Unix()}, entryFields(e)...)
	args = append(args, e.Refreshed.Unix())

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrConflict
	}
	return nil
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, e models.ForecastEntry) error {
	query := "UPDATE weatherdatas SET " +
		setClause(func(int) string { return "?" }) +
		" WHERE weathersite_id = ? AND dt = ?"

	args := append(entryFields(e), e.Refreshed.Unix(), e.SiteID, e.DT.Unix())

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, q models.EntryQuery) ([]models.ForecastEntry, error) {
	conditions := []string{"weathersite_id = ?"}
	args := []any{q.SiteID}

	if q.Since != nil {
		conditions = append(conditions, "dt >= ?")
		args = append(args, q.Since.Unix())
	}
	if q.Until != nil {
		conditions = append(conditions, "dt <= ?")
		args = append(args, q.Until.Unix())
	}
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT ?"
		args = append(args, q.Limit)
	}

	query := "SELECT " + selectEntryColumns() + " FROM weatherdatas WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY dt" + limit

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ForecastEntry, 0)
	for rows.Next() {
		var e models.ForecastEntry
		var dtUnix, refreshed int64
		if err := rows.Scan(entryScanDest(&e, &dtUnix, &refreshed)...); err != nil {
			return nil, err
		}
		e.DT = time.Unix(dtUnix, 0).UTC()
		e.Refreshed = time.Unix(refreshed, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
