package handlers

import (
	"context"
	"net/http"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExperienceReader serves the catalog
type ExperienceReader interface {
	ListExperiences(ctx context.Context) ([]models.Experience, error)
	GetExperience(ctx context.Context, id string) (*models.ExperienceDetail, error)
}

// ExperienceHandler handles catalog endpoints
type ExperienceHandler struct {
	experiences ExperienceReader
	logger      *logrus.Logger
}

// NewExperienceHandler creates a new ExperienceHandler
func NewExperienceHandler(experiences ExperienceReader, logger *logrus.Logger) *ExperienceHandler {
	return &ExperienceHandler{
		experiences: experiences,
		logger:      logger,
	}
}

// ListExperiences handles GET /api/experiences
func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	experiences, err := h.experiences.ListExperiences(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Error fetching experiences")
		return
	}

	respondOK(c, http.StatusOK, "Experiences fetched successfully", experiences)
}

// GetExperience handles GET /api/experiences/:id
func (h *ExperienceHandler) GetExperience(c *gin.Context) {
	detail, err := h.experiences.GetExperience(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Error fetching experience details")
		return
	}

	respondOK(c, http.StatusOK, "Experience details fetched successfully", detail)
}
