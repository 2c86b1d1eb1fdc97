package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/google/uuid"
)

const bookingColumns = `id, experience_id, slot_id, user_name, user_email, user_phone,
	slot_date, slot_time, original_price, discount, total_price, promo_code,
	status, idempotency_key, created_at`

// bookingRow is the flat bookings table layout
type bookingRow struct {
	ID             string         `db:"id"`
	ExperienceID   string         `db:"experience_id"`
	SlotID         string         `db:"slot_id"`
	UserName       string         `db:"user_name"`
	UserEmail      string         `db:"user_email"`
	UserPhone      string         `db:"user_phone"`
	SlotDate       string         `db:"slot_date"`
	SlotTime       string         `db:"slot_time"`
	OriginalPrice  int64          `db:"original_price"`
	Discount       int64          `db:"discount"`
	TotalPrice     int64          `db:"total_price"`
	PromoCode      sql.NullString `db:"promo_code"`
	Status         string         `db:"status"`
	IdempotencyKey sql.NullString `db:"idempotency_key"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row bookingRow) toModel() models.Booking {
	booking := models.Booking{
		ID:           row.ID,
		ExperienceID: row.ExperienceID,
		SlotID:       row.SlotID,
		UserInfo: models.UserInfo{
			Name:  row.UserName,
			Email: row.UserEmail,
			Phone: row.UserPhone,
		},
		SelectedSlot: models.SelectedSlot{
			Date: row.SlotDate,
			Time: row.SlotTime,
		},
		OriginalPrice: row.OriginalPrice,
		Discount:      row.Discount,
		TotalPrice:    row.TotalPrice,
		Status:        models.BookingStatus(row.Status),
		CreatedAt:     row.CreatedAt,
	}
	if row.PromoCode.Valid {
		code := row.PromoCode.String
		booking.PromoCode = &code
	}
	if row.IdempotencyKey.Valid {
		key := row.IdempotencyKey.String
		booking.IdempotencyKey = &key
	}
	return booking
}

// bookingDetailsRow is a booking joined with its experience and slot
type bookingDetailsRow struct {
	bookingRow
	ExperienceTitle       string             `db:"experience_title"`
	ExperienceDescription string             `db:"experience_description"`
	ExperienceImages      models.StringArray `db:"experience_images"`
	CurrentSlotDate       string             `db:"current_slot_date"`
	CurrentSlotTime       string             `db:"current_slot_time"`
}

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking and fills in its ID and creation time.
// A second active booking for the same slot (or a reused idempotency key)
// returns ErrDuplicate.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, experience_id, slot_id, user_name, user_email, user_phone,
			slot_date, slot_time, original_price, discount, total_price,
			promo_code, status, idempotency_key
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING created_at`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}

	err := r.db.GetContext(ctx, &booking.CreatedAt, query,
		booking.ID,
		booking.ExperienceID,
		booking.SlotID,
		booking.UserInfo.Name,
		booking.UserInfo.Email,
		booking.UserInfo.Phone,
		booking.SelectedSlot.Date,
		booking.SelectedSlot.Time,
		booking.OriginalPrice,
		booking.Discount,
		booking.TotalPrice,
		booking.PromoCode,
		string(booking.Status),
		booking.IdempotencyKey,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetDetailsByID returns a booking with its experience summary and slot
func (r *BookingRepository) GetDetailsByID(ctx context.Context, id string) (*models.BookingDetails, error) {
	query := `
		SELECT
			b.id, b.experience_id, b.slot_id, b.user_name, b.user_email, b.user_phone,
			b.slot_date, b.slot_time, b.original_price, b.discount, b.total_price,
			b.promo_code, b.status, b.idempotency_key, b.created_at,
			e.title AS experience_title,
			e.description AS experience_description,
			e.images AS experience_images,
			s.slot_date AS current_slot_date,
			s.slot_time AS current_slot_time
		FROM bookings b
		JOIN experiences e ON e.id = b.experience_id
		JOIN slots s ON s.id = b.slot_id
		WHERE b.id = $1`

	var row bookingDetailsRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &models.BookingDetails{
		Booking: row.toModel(),
		Experience: models.ExperienceSummary{
			ID:          row.ExperienceID,
			Title:       row.ExperienceTitle,
			Description: row.ExperienceDescription,
			Images:      row.ExperienceImages,
		},
		Slot: models.SlotRef{
			ID:   row.SlotID,
			Date: row.CurrentSlotDate,
			Time: row.CurrentSlotTime,
		},
	}, nil
}

// GetByIdempotencyKey returns the booking created with the given key,
// or nil if there is none
func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE idempotency_key = $1`

	var row bookingRow
	err := r.db.GetContext(ctx, &row, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by idempotency key: %w", err)
	}

	booking := row.toModel()
	return &booking, nil
}
