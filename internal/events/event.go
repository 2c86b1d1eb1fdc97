// Package events carries booking notifications over RabbitMQ.
package events

import (
	"time"

	"github.com/bookit/bookit-backend/internal/models"
)

// BookingConfirmedEvent is published after a booking is committed. It carries
// enough for downstream consumers (notifications, analytics) to act without
// reading the bookings table.
type BookingConfirmedEvent struct {
	BookingID       string  `json:"booking_id"`
	ExperienceID    string  `json:"experience_id"`
	ExperienceTitle string  `json:"experience_title"`
	SlotID          string  `json:"slot_id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	OriginalPrice   int64   `json:"original_price"`
	Discount        int64   `json:"discount"`
	TotalPrice      int64   `json:"total_price"`
	PromoCode       *string `json:"promo_code,omitempty"`
	ConfirmedAt     string  `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event payload for a created booking
func NewBookingConfirmedEvent(booking *models.BookingDetails) BookingConfirmedEvent {
	confirmedAt := booking.CreatedAt
	if confirmedAt.IsZero() {
		confirmedAt = time.Now()
	}

	return BookingConfirmedEvent{
		BookingID:       booking.ID,
		ExperienceID:    booking.ExperienceID,
		ExperienceTitle: booking.Experience.Title,
		SlotID:          booking.SlotID,
		Date:            booking.SelectedSlot.Date,
		Time:            booking.SelectedSlot.Time,
		CustomerName:    booking.UserInfo.Name,
		CustomerEmail:   booking.UserInfo.Email,
		OriginalPrice:   booking.OriginalPrice,
		Discount:        booking.Discount,
		TotalPrice:      booking.TotalPrice,
		PromoCode:       booking.PromoCode,
		ConfirmedAt:     confirmedAt.UTC().Format(time.RFC3339),
	}
}
