package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookit/bookit-backend/internal/models"
)

const experienceColumns = `id, title, description, short_description, price,
	images, available_dates, created_at, updated_at`

// ExperienceRepository handles experience catalog database operations
type ExperienceRepository struct {
	db DB
}

// NewExperienceRepository creates a new ExperienceRepository
func NewExperienceRepository(db DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

// List returns all experiences, newest first
func (r *ExperienceRepository) List(ctx context.Context) ([]models.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences ORDER BY created_at DESC`

	experiences := []models.Experience{}
	if err := r.db.SelectContext(ctx, &experiences, query); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return experiences, nil
}

// GetByID returns a single experience or ErrNotFound
func (r *ExperienceRepository) GetByID(ctx context.Context, id string) (*models.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1`

	var experience models.Experience
	err := r.db.GetContext(ctx, &experience, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	return &experience, nil
}

// Count returns the number of experiences in the catalog
func (r *ExperienceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM experiences`); err != nil {
		return 0, fmt.Errorf("failed to count experiences: %w", err)
	}
	return count, nil
}
