package services

import (
	"context"
	"errors"

	"github.com/bookit/bookit-backend/internal/database"
	"github.com/bookit/bookit-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExperienceStore is the catalog read side
type ExperienceStore interface {
	List(ctx context.Context) ([]models.Experience, error)
	GetByID(ctx context.Context, id string) (*models.Experience, error)
}

// SlotStore holds slot availability and the claim primitive
type SlotStore interface {
	ListByExperience(ctx context.Context, experienceID string) ([]models.Slot, error)
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) (bool, error)
}

// ExperienceService serves the catalog and slot availability
type ExperienceService struct {
	experiences ExperienceStore
	slots       SlotStore
	logger      *logrus.Logger
}

// NewExperienceService creates a new ExperienceService
func NewExperienceService(experiences ExperienceStore, slots SlotStore, logger *logrus.Logger) *ExperienceService {
	return &ExperienceService{
		experiences: experiences,
		slots:       slots,
		logger:      logger,
	}
}

// ListExperiences returns the catalog, newest first
func (s *ExperienceService) ListExperiences(ctx context.Context) ([]models.Experience, error) {
	experiences, err := s.experiences.List(ctx)
	if err != nil {
		return nil, NewInternal("Error fetching experiences", err)
	}
	return experiences, nil
}

// GetExperience returns an experience and its slots grouped by date
func (s *ExperienceService) GetExperience(ctx context.Context, id string) (*models.ExperienceDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewNotFound("Experience not found")
	}

	experience, err := s.experiences.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NewNotFound("Experience not found")
	}
	if err != nil {
		return nil, NewInternal("Error fetching experience details", err)
	}

	slots, err := s.slots.ListByExperience(ctx, id)
	if err != nil {
		return nil, NewInternal("Error fetching experience details", err)
	}

	s.logger.WithFields(logrus.Fields{
		"experience_id": id,
		"slots":         len(slots),
	}).Debug("Loaded experience detail")

	return &models.ExperienceDetail{
		Experience: *experience,
		Slots:      models.GroupSlotsByDate(slots),
	}, nil
}
