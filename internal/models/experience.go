package models

import (
	"time"
)

// Experience is a bookable activity (tour, class, ...) with a fixed price.
// Price is expressed in the smallest currency unit.
type Experience struct {
	ID               string      `json:"id" db:"id"`
	Title            string      `json:"title" db:"title"`
	Description      string      `json:"description" db:"description"`
	ShortDescription string      `json:"shortDescription" db:"short_description"`
	Price            int64       `json:"price" db:"price"`
	Images           StringArray `json:"images" db:"images"`
	AvailableDates   StringArray `json:"availableDates" db:"available_dates"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// ExperienceSummary is the slice of an experience joined onto a booking
type ExperienceSummary struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description,omitempty" db:"description"`
	Images      StringArray `json:"images,omitempty" db:"images"`
}

// ExperienceDetail is the experience page payload: the experience and its
// slots grouped by date
type ExperienceDetail struct {
	Experience Experience  `json:"experience"`
	Slots      SlotsByDate `json:"slots"`
}
