package handlers

import (
	"net/http"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PromoValidator quotes promo codes
type PromoValidator interface {
	Validate(req *models.ValidatePromoRequest) (*models.PromoQuote, error)
}

// PromoHandler handles the promo box endpoint
type PromoHandler struct {
	promos PromoValidator
	logger *logrus.Logger
}

// NewPromoHandler creates a new PromoHandler
func NewPromoHandler(promos PromoValidator, logger *logrus.Logger) *PromoHandler {
	return &PromoHandler{
		promos: promos,
		logger: logger,
	}
}

// ValidatePromo handles POST /api/promo/validate
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	var req models.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Invalid promo request body")
		respondFailure(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	quote, err := h.promos.Validate(&req)
	if err != nil {
		respondError(c, h.logger, err, "Error validating promo code")
		return
	}

	respondOK(c, http.StatusOK, "Promo code applied successfully", quote)
}
