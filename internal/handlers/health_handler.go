package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the health check can probe
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	db      Pinger
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Root handles GET / with the service banner
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "BookIt API Server",
		"version": h.version,
		"status":  "running",
		"endpoints": gin.H{
			"health":      "/api/health",
			"experiences": "/api/experiences",
			"bookings":    "/api/bookings",
			"promo":       "/api/promo",
		},
	})
}

// Health handles GET /api/health and GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, Response{
				Success: false,
				Message: "Database unavailable",
				Error:   "unhealthy",
			})
			return
		}
	}

	respondOK(c, http.StatusOK, "Server is running", gin.H{
		"status":    "healthy",
		"database":  "healthy",
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}

// NotFound handles unknown routes
func NotFound(c *gin.Context) {
	respondFailure(c, http.StatusNotFound, "not_found", "Not Found - "+c.Request.URL.Path)
}
