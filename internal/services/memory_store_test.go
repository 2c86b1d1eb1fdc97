package services

import (
	"context"
	"sync"
	"time"

	"github.com/bookit/bookit-backend/internal/database"
	"github.com/bookit/bookit-backend/internal/models"
	"github.com/google/uuid"
)

// memoryStore is an in-memory catalog, slot and booking store with the same
// claim and uniqueness semantics as the Postgres repositories
type memoryStore struct {
	mu          sync.Mutex
	experiences map[string]models.Experience
	slots       map[string]models.Slot
	bookings    map[string]models.Booking

	createErr  error
	releaseErr error
	claimCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		experiences: make(map[string]models.Experience),
		slots:       make(map[string]models.Slot),
		bookings:    make(map[string]models.Booking),
	}
}

func (m *memoryStore) addExperience(title string, price int64) models.Experience {
	m.mu.Lock()
	defer m.mu.Unlock()

	experience := models.Experience{
		ID:        uuid.NewString(),
		Title:     title,
		Price:     price,
		CreatedAt: time.Now(),
	}
	m.experiences[experience.ID] = experience
	return experience
}

func (m *memoryStore) addSlot(experienceID, date, t string, booked bool) models.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := models.Slot{
		ID:           uuid.NewString(),
		ExperienceID: experienceID,
		Date:         date,
		Time:         t,
		IsBooked:     booked,
	}
	m.slots[slot.ID] = slot
	return slot
}

func (m *memoryStore) slot(id string) models.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id]
}

func (m *memoryStore) bookingsForSlot(slotID string) []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Booking
	for _, booking := range m.bookings {
		if booking.SlotID == slotID {
			result = append(result, booking)
		}
	}
	return result
}

func (m *memoryStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

// ExperienceStore

func (m *memoryStore) List(ctx context.Context) ([]models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.Experience, 0, len(m.experiences))
	for _, experience := range m.experiences {
		result = append(result, experience)
	}
	return result, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id string) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	experience, ok := m.experiences[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &experience, nil
}

// slotStore adapts memoryStore to SlotStore; GetByID clashes with the
// experience lookup so slots get their own view
type slotStore struct{ *memoryStore }

func (s slotStore) ListByExperience(ctx context.Context, experienceID string) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Slot{}
	for _, slot := range s.slots {
		if slot.ExperienceID == experienceID {
			result = append(result, slot)
		}
	}
	return result, nil
}

func (s slotStore) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &slot, nil
}

func (s slotStore) Claim(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claimCalls++
	slot, ok := s.slots[id]
	if !ok || slot.IsBooked {
		return false, nil
	}
	slot.IsBooked = true
	s.slots[id] = slot
	return true, nil
}

func (s slotStore) Release(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.releaseErr != nil {
		return false, s.releaseErr
	}
	slot, ok := s.slots[id]
	if !ok || !slot.IsBooked {
		return false, nil
	}
	slot.IsBooked = false
	s.slots[id] = slot
	return true, nil
}

// bookingStore adapts memoryStore to BookingStore
type bookingStore struct{ *memoryStore }

func (b bookingStore) Create(ctx context.Context, booking *models.Booking) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.createErr != nil {
		return b.createErr
	}
	for _, existing := range b.bookings {
		if existing.SlotID == booking.SlotID && existing.Status.IsActive() {
			return database.ErrDuplicate
		}
		if booking.IdempotencyKey != nil && existing.IdempotencyKey != nil &&
			*existing.IdempotencyKey == *booking.IdempotencyKey {
			return database.ErrDuplicate
		}
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now()
	b.bookings[booking.ID] = *booking
	return nil
}

func (b bookingStore) GetDetailsByID(ctx context.Context, id string) (*models.BookingDetails, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, ok := b.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	experience := b.experiences[booking.ExperienceID]
	slot := b.slots[booking.SlotID]

	return &models.BookingDetails{
		Booking: booking,
		Experience: models.ExperienceSummary{
			ID:          experience.ID,
			Title:       experience.Title,
			Description: experience.Description,
			Images:      experience.Images,
		},
		Slot: models.SlotRef{ID: slot.ID, Date: slot.Date, Time: slot.Time},
	}, nil
}

func (b bookingStore) GetByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, booking := range b.bookings {
		if booking.IdempotencyKey != nil && *booking.IdempotencyKey == key {
			found := booking
			return &found, nil
		}
	}
	return nil, nil
}

// recordingPublisher captures confirmation events
type recordingPublisher struct {
	mu       sync.Mutex
	events   []*models.BookingDetails
	failWith error
}

func (p *recordingPublisher) PublishBookingConfirmed(ctx context.Context, booking *models.BookingDetails) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, booking)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
