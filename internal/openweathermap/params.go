package openweathermap

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidLookup wraps every input validation failure raised before a request is sent.
var ErrInvalidLookup = errors.New("invalid lookup")

// Lookup selects the location of a forecast request. The set of variants is
// closed: ByCityID, ByCityName and ByGeoloc.
type Lookup interface {
	apply(v url.Values) error
}

// ByCityID looks a location up by the provider's numeric city id.
type ByCityID struct {
	ID int64
}

func (l ByCityID) apply(v url.Values) error {
	if l.ID <= 0 {
		return fmt.Errorf("%w: city id is required", ErrInvalidLookup)
	}
	v.Set("id", strconv.FormatInt(l.ID, 10))
	return nil
}

// ByCityName looks a location up by name, optionally narrowed by an ISO country code.
type ByCityName struct {
	Name    string
	Country string
}

func (l ByCityName) apply(v url.Values) error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return fmt.Errorf("%w: city name is required", ErrInvalidLookup)
	}
	q := name
	if country := strings.TrimSpace(l.Country); country != "" {
		q = name + "," + country
	}
	v.Set("q", q)
	return nil
}

// ByGeoloc looks a location up by coordinates. Both must be set; zero is a valid value.
type ByGeoloc struct {
	Lat *float64
	Lon *float64
}

func (l ByGeoloc) apply(v url.Values) error {
	if l.Lat == nil || l.Lon == nil {
		return fmt.Errorf("%w: latitude and longitude are required", ErrInvalidLookup)
	}
	if !finite(*l.Lat) || !finite(*l.Lon) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidLookup)
	}
	if *l.Lat < -90 || *l.Lat > 90 || *l.Lon < -180 || *l.Lon > 180 {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidLookup)
	}
	v.Set("lat", strconv.FormatFloat(*l.Lat, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(*l.Lon, 'f', -1, 64))
	return nil
}

// Options are the per-call overrides. Empty fields fall back to Config.
type Options struct {
	Mode  Mode
	Units string
	Lang  string
}

// BuildParams assembles the query string for a forecast request, without the output mode.
func BuildParams(cfg Config, lookup Lookup, opts Options) (url.Values, error) {
	if lookup == nil {
		return nil, fmt.Errorf("%w: no location given", ErrInvalidLookup)
	}

	values := url.Values{}
	values.Set("APPID", cfg.Key)

	units := cfg.Units
	if u := strings.ToLower(strings.TrimSpace(opts.Units)); u != "" {
		if !validUnits(u) {
			return nil, fmt.Errorf("%w: unsupported units %q", ErrInvalidLookup, opts.Units)
		}
		units = u
	}
	values.Set("units", units)

	lang := cfg.Lang
	if l := strings.TrimSpace(opts.Lang); l != "" {
		lang = l
	}
	if lang != "" {
		values.Set("lang", lang)
	}

	if err := lookup.apply(values); err != nil {
		return nil, err
	}
	return values, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validUnits(u string) bool {
	switch u {
	case "metric", "imperial", "standard":
		return true
	default:
		return false
	}
}
