package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

// Store is the forecast cache: the reconciler's repository plus the read
// queries served by the API.
type Store interface {
	forecast.Repository

	ListSites(ctx context.Context) ([]models.Site, error)
	ListEntries(ctx context.Context, q models.EntryQuery) ([]models.ForecastEntry, error)
	Close() error
}

// Open picks the backend from the URL: sqlite://path or file:path open SQLite,
// anything else is handed to pgx.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "file:"):
		return NewSQLite(ctx, databaseURL)
	default:
		return NewPostgres(ctx, databaseURL)
	}
}

// entryColumns are the value columns of weatherdatas, in entryFields order.
var entryColumns = []string{
	"temp", "temp_min", "temp_max", "pressure", "sea_level", "grnd_level",
	"humidity", "temp_kf",
	"weatherid", "weathermain", "weatherdescription", "weathericon",
	"clouds", "windspeed", "winddeg", "rain3", "snow3",
}

func entryFields(e models.ForecastEntry) []any {
	return []any{
		e.Temp, e.TempMin, e.TempMax, e.Pressure, e.SeaLevel, e.GrndLevel,
		e.Humidity, e.TempKF,
		e.WeatherID, e.WeatherMain, e.WeatherDescription, e.WeatherIcon,
		e.Clouds, e.WindSpeed, e.WindDeg, e.Rain3, e.Snow3,
	}
}

// entryScanDest matches selectEntryColumns. dt and refreshed are backend specific.
func entryScanDest(e *models.ForecastEntry, dt, refreshed any) []any {
	return []any{
		&e.ID, &e.SiteID, dt,
		&e.Temp, &e.TempMin, &e.TempMax, &e.Pressure, &e.SeaLevel, &e.GrndLevel,
		&e.Humidity, &e.TempKF,
		&e.WeatherID, &e.WeatherMain, &e.WeatherDescription, &e.WeatherIcon,
		&e.Clouds, &e.WindSpeed, &e.WindDeg, &e.Rain3, &e.Snow3,
		refreshed,
	}
}

func selectEntryColumns() string {
	return "id, weathersite_id, dt, " + strings.Join(entryColumns, ", ") + ", refreshed_at"
}

func insertEntryColumns() string {
	return "weathersite_id, dt, " + strings.Join(entryColumns, ", ") + ", refreshed_at"
}

// pgPlaceholders renders $from..$(from+n-1).
func pgPlaceholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(parts, ",")
}

func sqlitePlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// setClause renders "col = <placeholder>" for every entry column plus refreshed_at.
func setClause(placeholder func(i int) string) string {
	cols := append(append([]string(nil), entryColumns...), "refreshed_at")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " = " + placeholder(i)
	}
	return strings.Join(parts, ", ")
}
