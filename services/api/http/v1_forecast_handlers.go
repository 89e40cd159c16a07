package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/openweathermap-forecast/internal/forecast"
	"github.com/02loveslollipop/openweathermap-forecast/internal/openweathermap"
)

// forecastQuery holds the per-call overrides shared by all lookups.
type forecastQuery struct {
	// mode and units are matched case-insensitively by the provider package
	Mode  string `form:"mode" binding:"omitempty,max=10"`
	Units string `form:"units" binding:"omitempty,max=10"`
	Lang  string `form:"lang" binding:"omitempty,max=10"`
}

func (q forecastQuery) options() openweathermap.Options {
	return openweathermap.Options{
		Mode:  openweathermap.Mode(q.Mode),
		Units: q.Units,
		Lang:  q.Lang,
	}
}

func bindForecastQuery(c *gin.Context) (forecastQuery, bool) {
	var q forecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, forecast.Result{Error: "invalid query: " + err.Error()})
		return q, false
	}
	return q, true
}

// handleV1ForecastByCityID fetches the forecast for a provider city id
// GET /api/v1/forecast/city/:id
func (s *Server) handleV1ForecastByCityID(c *gin.Context) {
	q, ok := bindForecastQuery(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, forecast.Result{Error: "invalid city id"})
		return
	}

	ctx, cancel := s.lookupContext(c)
	defer cancel()

	s.respondResult(c, s.service.GetWeatherByCityID(ctx, id, q.options()))
}

// handleV1ForecastByCityName fetches the forecast for a city name
// GET /api/v1/forecast/name/:name?country=
func (s *Server) handleV1ForecastByCityName(c *gin.Context) {
	q, ok := bindForecastQuery(c)
	if !ok {
		return
	}

	ctx, cancel := s.lookupContext(c)
	defer cancel()

	s.respondResult(c, s.service.GetWeatherByCityName(ctx, c.Param("name"), c.Query("country"), q.options()))
}

// handleV1ForecastByGeoloc fetches the forecast for coordinates
// GET /api/v1/forecast/geoloc?lat=&lon=
func (s *Server) handleV1ForecastByGeoloc(c *gin.Context) {
	q, ok := bindForecastQuery(c)
	if !ok {
		return
	}

	lat, err := optionalFloat(c.Query("lat"))
	if err != nil {
		c.JSON(http.StatusBadRequest, forecast.Result{Error: "invalid lat"})
		return
	}
	lon, err := optionalFloat(c.Query("lon"))
	if err != nil {
		c.JSON(http.StatusBadRequest, forecast.Result{Error: "invalid lon"})
		return
	}

	ctx, cancel := s.lookupContext(c)
	defer cancel()

	s.respondResult(c, s.service.GetWeatherByGeoloc(ctx, lat, lon, q.options()))
}

// lookupContext bounds a lookup: provider timeout plus room for the store writes.
func (s *Server) lookupContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.Provider.Timeout+10*time.Second)
}

func (s *Server) respondResult(c *gin.Context, res forecast.Result) {
	status := resultStatus(res)
	if status >= http.StatusInternalServerError {
		log.Printf("forecast lookup failed (request=%s): %v", c.GetString("request_id"), res.Err)
	}
	c.JSON(status, res)
}

func resultStatus(res forecast.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case errors.Is(res.Err, openweathermap.ErrInvalidLookup), errors.Is(res.Err, openweathermap.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(res.Err, openweathermap.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// optionalFloat parses v, returning nil when it is empty.
func optionalFloat(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
