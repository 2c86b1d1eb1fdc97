package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SeedResult reports what a seed run inserted
type SeedResult struct {
	Experiences int
	Slots       int
}

// Seeder populates the catalog with sample experiences and their slots
type Seeder struct {
	db     DB
	logger *logrus.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(db DB, logger *logrus.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SeedIfEmpty seeds only when there are no experiences yet.
// Returns true when seeding ran.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := NewExperienceRepository(s.db).Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.WithField("experiences", count).Debug("Catalog already populated, skipping seed")
		return false, nil
	}

	if _, err := s.Seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Reset removes all bookings, slots and experiences
func (s *Seeder) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE TABLE bookings, slots, experiences CASCADE`); err != nil {
		return fmt.Errorf("failed to truncate catalog: %w", err)
	}
	s.logger.Info("Cleared existing bookings, slots and experiences")
	return nil
}

// Seed inserts the sample catalog in a single transaction: one slot per
// available date and daily time, all initially free.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	experienceQuery := `
		INSERT INTO experiences (
			id, title, description, short_description, price,
			images, available_dates, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	slotQuery := `
		INSERT INTO slots (id, experience_id, slot_date, slot_time, is_booked)
		VALUES (:id, :experience_id, :slot_date, :slot_time, :is_booked)`

	result := &SeedResult{}
	// Stagger creation times so the newest-first listing keeps catalog order reversed.
	base := time.Now().UTC()

	for i, sample := range SeedExperiences {
		experienceID := uuid.New().String()
		createdAt := base.Add(time.Duration(i) * time.Second)

		if _, err := tx.ExecContext(ctx, experienceQuery,
			experienceID,
			sample.Title,
			sample.Description,
			sample.ShortDescription,
			sample.Price,
			sample.Images,
			sample.AvailableDates,
			createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to insert experience %q: %w", sample.Title, err)
		}

		slots := make([]models.Slot, 0, len(sample.AvailableDates)*len(SeedTimes))
		for _, date := range sample.AvailableDates {
			for _, t := range SeedTimes {
				slots = append(slots, models.Slot{
					ID:           uuid.New().String(),
					ExperienceID: experienceID,
					Date:         date,
					Time:         t,
				})
			}
		}

		if len(slots) > 0 {
			if _, err := tx.NamedExecContext(ctx, slotQuery, slots); err != nil {
				return nil, fmt.Errorf("failed to insert slots for %q: %w", sample.Title, err)
			}
		}

		result.Experiences++
		result.Slots += len(slots)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"experiences": result.Experiences,
		"slots":       result.Slots,
	}).Info("Database seeded")

	return result, nil
}
