package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IdempotencyKeyHeader lets clients retry a checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// BookingManager creates and reads bookings
type BookingManager interface {
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingDetails, error)
	GetBooking(ctx context.Context, id string) (*models.BookingDetails, error)
}

// ResponseInvalidator drops cached responses whose content a write changed
type ResponseInvalidator interface {
	Invalidate(ctx context.Context, paths ...string) error
}

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookings BookingManager
	cache    ResponseInvalidator
	logger   *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler. cache may be nil.
func NewBookingHandler(bookings BookingManager, cache ResponseInvalidator, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		cache:    cache,
		logger:   logger,
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Invalid booking request body")
		respondFailure(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Error creating booking")
		return
	}

	// slot availability on the experience page changed
	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context(), "/api/experiences/"+booking.ExperienceID); err != nil {
			h.logger.WithError(err).WithField("experience_id", booking.ExperienceID).
				Warn("Failed to invalidate cached experience")
		}
	}

	respondOK(c, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Error fetching booking")
		return
	}

	respondOK(c, http.StatusOK, "Booking fetched successfully", booking)
}
