package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

var errMalformedItem = errors.New("malformed forecast item")

// BuildSite converts the city block of a response into a site row.
func BuildSite(city models.City) models.Site {
	return models.Site{
		ID:        city.ID,
		Name:      city.Name,
		Latitude:  city.Coord.Lat,
		Longitude: city.Coord.Lon,
		Country:   city.Country,
	}
}

// BuildEntry normalizes one forecast step into an entry row stamped with refreshed.
func BuildEntry(siteID int64, item models.Item, refreshed time.Time) (models.ForecastEntry, error) {
	if item.Dt == 0 {
		return models.ForecastEntry{}, fmt.Errorf("%w: missing dt", errMalformedItem)
	}
	if len(item.Weather) == 0 {
		return models.ForecastEntry{}, fmt.Errorf("%w: no weather condition at dt=%d", errMalformedItem, item.Dt)
	}
	cond := item.Weather[0]

	return models.ForecastEntry{
		SiteID:             siteID,
		DT:                 time.Unix(item.Dt, 0).UTC(),
		Temp:               item.Main.Temp,
		TempMin:            item.Main.TempMin,
		TempMax:            item.Main.TempMax,
		Pressure:           item.Main.Pressure,
		SeaLevel:           item.Main.SeaLevel,
		GrndLevel:          item.Main.GrndLevel,
		Humidity:           item.Main.Humidity,
		TempKF:             item.Main.TempKF,
		WeatherID:          cond.ID,
		WeatherMain:        cond.Main,
		WeatherDescription: cond.Description,
		WeatherIcon:        cond.Icon,
		Clouds:             item.Clouds.All,
		WindSpeed:          item.Wind.Speed,
		WindDeg:            item.Wind.Deg,
		Rain3:              threeHours(item.Rain),
		Snow3:              threeHours(item.Snow),
		Refreshed:          refreshed,
	}, nil
}

// NeedsRefresh reports whether a stored entry is older than the staleness window.
func NeedsRefresh(existing models.ForecastEntry, now time.Time, staleAfter time.Duration) bool {
	return existing.Refreshed.Before(now.Add(-staleAfter))
}

func threeHours(p *models.Precipitation) *float64 {
	if p == nil || p.ThreeHours == nil {
		return nil
	}
	v := *p.ThreeHours
	return &v
}

// FloatPtrString prints pointer values for logging.
func FloatPtrString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}
