package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookit/bookit-backend/internal/database"
	"github.com/bookit/bookit-backend/internal/models"
	"github.com/bookit/bookit-backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BookingStore persists bookings and serves the booking read model
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetDetailsByID(ctx context.Context, id string) (*models.BookingDetails, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error)
}

// BookingPublisher announces confirmed bookings to other systems
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, booking *models.BookingDetails) error
}

// BookingServiceConfig holds configuration for the booking orchestrator
type BookingServiceConfig struct {
	ReleaseTimeout time.Duration // budget for releasing a claim after a failed write (default 5s)
	PublishTimeout time.Duration // budget for the confirmation event (default 3s)
}

// DefaultBookingServiceConfig returns default configuration
func DefaultBookingServiceConfig() BookingServiceConfig {
	return BookingServiceConfig{
		ReleaseTimeout: 5 * time.Second,
		PublishTimeout: 3 * time.Second,
	}
}

// BookingService turns a checkout request into a claimed slot plus a stored
// booking, or leaves both untouched.
type BookingService struct {
	experiences ExperienceStore
	slots       SlotStore
	bookings    BookingStore
	promos      *PromoService
	publisher   BookingPublisher
	contacts    *validator.ContactValidator
	locks       *slotLocker
	config      BookingServiceConfig
	logger      *logrus.Logger
}

// NewBookingService creates a new booking orchestrator.
// publisher may be nil when no broker is configured.
func NewBookingService(
	experiences ExperienceStore,
	slots SlotStore,
	bookings BookingStore,
	promos *PromoService,
	publisher BookingPublisher,
	config BookingServiceConfig,
	logger *logrus.Logger,
) *BookingService {
	if config.ReleaseTimeout <= 0 {
		config.ReleaseTimeout = DefaultBookingServiceConfig().ReleaseTimeout
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultBookingServiceConfig().PublishTimeout
	}
	return &BookingService{
		experiences: experiences,
		slots:       slots,
		bookings:    bookings,
		promos:      promos,
		publisher:   publisher,
		contacts:    validator.NewContactValidator(),
		locks:       newSlotLocker(),
		config:      config,
		logger:      logger,
	}
}

// ============================================================================
// CREATE BOOKING
// ============================================================================

// CreateBooking validates the request, claims the slot, then records the
// booking. If the booking write fails the claim is released, so on any error
// the slot keeps its previous state and no booking exists for this attempt.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingDetails, error) {
	// 1. Required fields
	experienceID := canonicalID(req.ExperienceID)
	slotID := canonicalID(req.SlotID)
	if experienceID == "" || slotID == "" || req.UserInfo == nil || req.SelectedSlot == nil {
		return nil, NewInvalidRequest("Missing required fields")
	}

	// 2. Contact details
	contact, err := s.contacts.Validate(req.UserInfo.Name, req.UserInfo.Email, req.UserInfo.Phone)
	if err != nil {
		return nil, NewInvalidRequest("Missing user information")
	}

	// 3. Replays of an earlier request return the booking it created
	idempotencyKey := strings.TrimSpace(req.IdempotencyKey)
	if idempotencyKey != "" {
		existing, err := s.bookings.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, NewInternal("Error creating booking", err)
		}
		if existing != nil {
			if existing.SlotID != slotID || existing.ExperienceID != experienceID {
				return nil, NewConflict("Idempotency key was already used for a different booking")
			}
			s.logger.WithFields(logrus.Fields{
				"booking_id":      existing.ID,
				"idempotency_key": idempotencyKey,
			}).Info("Returning existing booking for idempotency key")
			return s.getDetails(ctx, existing.ID, "Error creating booking")
		}
	}

	// 4. Experience
	experience, err := s.loadExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	// 5. Slot
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	// 6. Availability, then ownership
	if slot.IsBooked {
		return nil, NewConflict("Slot is already booked")
	}
	if slot.ExperienceID != experience.ID {
		return nil, NewInvalidRequest("Slot does not belong to this experience")
	}

	pricing := s.promos.Price(experience.Price, req.PromoCode)

	booking := &models.Booking{
		ExperienceID: experience.ID,
		SlotID:       slot.ID,
		UserInfo: models.UserInfo{
			Name:  contact.Name,
			Email: contact.Email,
			Phone: contact.Phone,
		},
		// The stored slot is authoritative for the frozen date/time.
		SelectedSlot: models.SelectedSlot{
			Date: slot.Date,
			Time: slot.Time,
		},
		OriginalPrice: pricing.OriginalPrice,
		Discount:      pricing.Discount,
		TotalPrice:    pricing.TotalPrice,
		PromoCode:     pricing.PromoCode,
		Status:        models.BookingStatusConfirmed,
	}
	if idempotencyKey != "" {
		booking.IdempotencyKey = &idempotencyKey
	}

	if err := s.claimAndRecord(ctx, booking); err != nil {
		return nil, err
	}

	details := &models.BookingDetails{
		Booking: *booking,
		Experience: models.ExperienceSummary{
			ID:    experience.ID,
			Title: experience.Title,
		},
		Slot: models.SlotRef{
			ID:   slot.ID,
			Date: slot.Date,
			Time: slot.Time,
		},
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"experience_id": booking.ExperienceID,
		"slot_id":       booking.SlotID,
		"total_price":   booking.TotalPrice,
		"discount":      booking.Discount,
	}).Info("Booking confirmed")

	s.publishConfirmed(ctx, details)

	return details, nil
}

// claimAndRecord runs the two-step commit under the per-slot lock:
// claim the slot with a conditional update, then insert the booking,
// releasing the claim if the insert fails.
func (s *BookingService) claimAndRecord(ctx context.Context, booking *models.Booking) error {
	unlock := s.locks.Lock(booking.SlotID)
	defer unlock()

	claimed, err := s.slots.Claim(ctx, booking.SlotID)
	if err != nil {
		return NewInternal("Error creating booking", err)
	}
	if !claimed {
		return NewConflict("Slot is already booked")
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.releaseClaim(ctx, booking.SlotID, err)
		if errors.Is(err, database.ErrDuplicate) {
			return NewConflict("Slot is already booked")
		}
		return NewInternal("Error creating booking", err)
	}

	return nil
}

// releaseClaim compensates a failed booking write. It runs even when the
// request context is already cancelled; failures are logged, not returned.
func (s *BookingService) releaseClaim(ctx context.Context, slotID string, cause error) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ReleaseTimeout)
	defer cancel()

	released, err := s.slots.Release(releaseCtx, slotID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"slot_id": slotID,
			"cause":   cause.Error(),
		}).Error("Failed to release slot claim after booking write failed")
		return
	}
	if !released {
		s.logger.WithFields(logrus.Fields{
			"slot_id": slotID,
			"cause":   cause.Error(),
		}).Error("Slot claim was not held during release")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"slot_id": slotID,
		"cause":   cause.Error(),
	}).Warn("Released slot claim after booking write failed")
}

func (s *BookingService) publishConfirmed(ctx context.Context, details *models.BookingDetails) {
	if s.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.PublishTimeout)
	defer cancel()

	if err := s.publisher.PublishBookingConfirmed(publishCtx, details); err != nil {
		s.logger.WithError(err).WithField("booking_id", details.ID).
			Warn("Failed to publish booking confirmation event")
	}
}

// ============================================================================
// READ SIDE
// ============================================================================

// GetBooking returns a booking joined with its experience and slot as they
// are now
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.BookingDetails, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewNotFound("Booking not found")
	}
	return s.getDetails(ctx, id, "Error fetching booking")
}

func (s *BookingService) getDetails(ctx context.Context, id, failureMessage string) (*models.BookingDetails, error) {
	details, err := s.bookings.GetDetailsByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NewNotFound("Booking not found")
	}
	if err != nil {
		return nil, NewInternal(failureMessage, err)
	}
	return details, nil
}

// canonicalID returns the lower-case hyphenated form of a UUID so ids from
// requests compare equal to ids read back from the store. Other input is
// only trimmed and fails the later lookups.
func canonicalID(raw string) string {
	id := strings.TrimSpace(raw)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

func (s *BookingService) loadExperience(ctx context.Context, id string) (*models.Experience, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewNotFound("Experience not found")
	}
	experience, err := s.experiences.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NewNotFound("Experience not found")
	}
	if err != nil {
		return nil, NewInternal("Error creating booking", err)
	}
	return experience, nil
}

func (s *BookingService) loadSlot(ctx context.Context, id string) (*models.Slot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, NewNotFound("Slot not found")
	}
	slot, err := s.slots.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, NewNotFound("Slot not found")
	}
	if err != nil {
		return nil, NewInternal("Error creating booking", err)
	}
	return slot, nil
}
