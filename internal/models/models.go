package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a site or forecast entry does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by InsertEntry when the (site, dt) row already exists.
var ErrConflict = errors.New("conflict")

// ForecastResponse models the JSON payload returned by the OpenWeatherMap forecast endpoint.
type ForecastResponse struct {
	Cnt  int    `json:"cnt"`
	City City   `json:"city"`
	List []Item `json:"list"`
}

// City is the location block of a forecast response.
type City struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Coord   Coord  `json:"coord"`
	Country string `json:"country"`
}

// Coord holds geographic coordinates in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Item is a single 3-hourly forecast step.
type Item struct {
	Dt      int64          `json:"dt"`
	Main    Main           `json:"main"`
	Weather []Condition    `json:"weather"`
	Clouds  Clouds         `json:"clouds"`
	Wind    Wind           `json:"wind"`
	Rain    *Precipitation `json:"rain,omitempty"`
	Snow    *Precipitation `json:"snow,omitempty"`
	DtTxt   string         `json:"dt_txt,omitempty"`
}

// Main groups temperature, pressure and humidity readings.
type Main struct {
	Temp      float64 `json:"temp"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	SeaLevel  float64 `json:"sea_level"`
	GrndLevel float64 `json:"grnd_level"`
	Humidity  int     `json:"humidity"`
	TempKF    float64 `json:"temp_kf"`
}

// Condition describes the weather condition code and its labels.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Clouds struct {
	All int `json:"all"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// Precipitation holds the accumulated volume over the last 3 hours, in mm.
// The provider omits the block (or the key) when there is none.
type Precipitation struct {
	ThreeHours *float64 `json:"3h,omitempty"`
}

// Site is a stored location, keyed by the provider's city id.
type Site struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// ForecastEntry is one stored forecast step for a site.
// (SiteID, DT) is unique.
type ForecastEntry struct {
	ID                 int64     `json:"id"`
	SiteID             int64     `json:"site_id"`
	DT                 time.Time `json:"dt"`
	Temp               float64   `json:"temp"`
	TempMin            float64   `json:"temp_min"`
	TempMax            float64   `json:"temp_max"`
	Pressure           float64   `json:"pressure"`
	SeaLevel           float64   `json:"sea_level"`
	GrndLevel          float64   `json:"grnd_level"`
	Humidity           int       `json:"humidity"`
	TempKF             float64   `json:"temp_kf"`
	WeatherID          int       `json:"weather_id"`
	WeatherMain        string    `json:"weather_main"`
	WeatherDescription string    `json:"weather_description"`
	WeatherIcon        string    `json:"weather_icon"`
	Clouds             int       `json:"clouds"`
	WindSpeed          float64   `json:"wind_speed"`
	WindDeg            float64   `json:"wind_deg"`
	Rain3              *float64  `json:"rain_3h,omitempty"`
	Snow3              *float64  `json:"snow_3h,omitempty"`
	Refreshed          time.Time `json:"refreshed_at"`
}

// EntryQuery holds filters for listing stored forecast entries of a site.
type EntryQuery struct {
	SiteID int64
	Since  *time.Time
	Until  *time.Time
	Limit  int
}
