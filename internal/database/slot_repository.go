package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookit/bookit-backend/internal/models"
)

const slotColumns = `id, experience_id, slot_date, slot_time, is_booked, created_at, updated_at`

// SlotRepository handles slot availability database operations
type SlotRepository struct {
	db DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// ListByExperience returns the slots of an experience ordered by date and time
func (r *SlotRepository) ListByExperience(ctx context.Context, experienceID string) ([]models.Slot, error) {
	query := `SELECT ` + slotColumns + `
		FROM slots
		WHERE experience_id = $1
		ORDER BY slot_date, slot_time`

	slots := []models.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, experienceID); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// GetByID returns a single slot or ErrNotFound
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	var slot models.Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

// ============================================================================
// CLAIM OPERATIONS
// ============================================================================

// Claim atomically flips a slot from available to booked.
// Returns false when the slot was already booked (or does not exist); the
// conditional UPDATE is a single statement so two callers can never both win.
func (r *SlotRepository) Claim(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE slots
		SET is_booked = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_booked = FALSE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return rowsAffected == 1, nil
}

// Release reverts a claim. Only used to compensate a booking write that
// failed after the claim succeeded.
func (r *SlotRepository) Release(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE slots
		SET is_booked = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_booked = TRUE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to release slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read release result: %w", err)
	}
	return rowsAffected == 1, nil
}

// ReleaseOrphaned frees slots that have been booked for longer than grace
// with no active booking behind them. This happens only when a booking write
// failed and its compensating release failed too.
func (r *SlotRepository) ReleaseOrphaned(ctx context.Context, grace time.Duration) ([]models.Slot, error) {
	query := `
		UPDATE slots s
		SET is_booked = FALSE, updated_at = NOW()
		WHERE s.is_booked = TRUE
			AND s.updated_at < NOW() - make_interval(secs => $1)
			AND NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.slot_id = s.id AND b.status <> 'cancelled'
			)
		RETURNING ` + slotColumns

	released := []models.Slot{}
	if err := r.db.SelectContext(ctx, &released, query, grace.Seconds()); err != nil {
		return nil, fmt.Errorf("failed to release orphaned slots: %w", err)
	}
	return released, nil
}
