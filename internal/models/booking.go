package models

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsActive reports whether a booking in this status holds its slot
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// UserInfo is the customer contact captured on a booking
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SelectedSlot is the slot date/time frozen onto a booking at creation
type SelectedSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Booking is a reservation of one slot by one customer with frozen pricing
type Booking struct {
	ID             string        `json:"id"`
	ExperienceID   string        `json:"experienceId"`
	SlotID         string        `json:"slotId"`
	UserInfo       UserInfo      `json:"userInfo"`
	SelectedSlot   SelectedSlot  `json:"selectedSlot"`
	OriginalPrice  int64         `json:"originalPrice"`
	Discount       int64         `json:"discount"`
	TotalPrice     int64         `json:"totalPrice"`
	PromoCode      *string       `json:"promoCode"`
	Status         BookingStatus `json:"status"`
	IdempotencyKey *string       `json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// SlotRef is the slot identity and schedule joined onto a booking
type SlotRef struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingDetails is the booking read model: the stored booking joined with
// the current experience and slot at read time
type BookingDetails struct {
	Booking
	Experience ExperienceSummary `json:"experience"`
	Slot       SlotRef           `json:"slot"`
}

// CreateBookingRequest is the checkout payload. Any client-side price or
// discount is ignored; pricing is always recomputed.
type CreateBookingRequest struct {
	ExperienceID   string        `json:"experienceId"`
	SlotID         string        `json:"slotId"`
	UserInfo       *UserInfo     `json:"userInfo"`
	SelectedSlot   *SelectedSlot `json:"selectedSlot"`
	PromoCode      *string       `json:"promoCode,omitempty"`
	IdempotencyKey string        `json:"idempotencyKey,omitempty"`
}

// Pricing is the server-side price breakdown for a booking
type Pricing struct {
	OriginalPrice int64
	Discount      int64
	TotalPrice    int64
	PromoCode     *string
}
