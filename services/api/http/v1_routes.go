package http

// registerV1Routes sets up the v1 API.
// Groups: /api/v1/forecast (live lookups), /api/v1/sites (cached data)
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	// Forecast endpoints - fetch from the provider, persist JSON replies when a store is set
	fc := v1.Group("/forecast")
	{
		fc.GET("/city/:id", s.handleV1ForecastByCityID)
		fc.GET("/name/:name", s.handleV1ForecastByCityName)
		fc.GET("/geoloc", s.handleV1ForecastByGeoloc)
	}

	// Site endpoints - read-only views over the cached tables
	sites := v1.Group("/sites")
	sites.Use(s.requireStore())
	{
		sites.GET("", s.handleV1ListSites)
		sites.GET("/:id", s.handleV1GetSite)
		sites.GET("/:id/forecasts", s.handleV1SiteForecasts)
	}
}
