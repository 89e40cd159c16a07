package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/openweathermap-forecast/internal/models"
)

func (s *Server) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.store == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "forecast cache is not configured"})
			return
		}
		c.Next()
	}
}

// handleV1ListSites returns all cached sites
// GET /api/v1/sites
func (s *Server) handleV1ListSites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	sites, err := s.store.ListSites(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": sites,
		"meta": gin.H{
			"count": len(sites),
		},
	})
}

// handleV1GetSite returns one cached site
// GET /api/v1/sites/:id
func (s *Server) handleV1GetSite(c *gin.Context) {
	siteID, ok := parseSiteID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	site, err := s.store.FindSite(ctx, siteID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": site,
	})
}

// handleV1SiteForecasts returns cached forecast entries for a site
// GET /api/v1/sites/:id/forecasts?start=&end=&limit=
func (s *Server) handleV1SiteForecasts(c *gin.Context) {
	siteID, ok := parseSiteID(c)
	if !ok {
		return
	}

	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	var since *time.Time
	var until *time.Time

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp"})
			return
		}
		tt := t.UTC()
		since = &tt
	}

	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
			return
		}
		tt := t.UTC()
		until = &tt
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if _, err := s.store.FindSite(ctx, siteID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries, err := s.store.ListEntries(ctx, models.EntryQuery{
		SiteID: siteID,
		Since:  since,
		Until:  until,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entries,
		"meta": gin.H{
			"site_id": siteID,
			"count":   len(entries),
			"limit":   limit,
		},
	})
}

func parseSiteID(c *gin.Context) (int64, bool) {
	siteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || siteID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return 0, false
	}
	return siteID, true
}
