package models

import (
	"sort"
	"time"
)

// Slot is one bookable date+time instance of an experience.
// IsBooked only moves from false to true through a claim (or back when a
// claim is released after a failed booking write).
type Slot struct {
	ID           string    `json:"id" db:"id"`
	ExperienceID string    `json:"experienceId" db:"experience_id"`
	Date         string    `json:"date" db:"slot_date"`
	Time         string    `json:"time" db:"slot_time"`
	IsBooked     bool      `json:"isBooked" db:"is_booked"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SlotSummary is the availability entry shown under a date
type SlotSummary struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	IsBooked bool   `json:"isBooked"`
}

// SlotsByDate maps a "YYYY-MM-DD" date to its slots ordered by time
type SlotsByDate map[string][]SlotSummary

// GroupSlotsByDate groups slots by date and orders each day by time.
// Times are "HH:MM" strings so lexical order is chronological.
func GroupSlotsByDate(slots []Slot) SlotsByDate {
	grouped := make(SlotsByDate)
	for _, slot := range slots {
		grouped[slot.Date] = append(grouped[slot.Date], SlotSummary{
			ID:       slot.ID,
			Time:     slot.Time,
			IsBooked: slot.IsBooked,
		})
	}

	for date := range grouped {
		day := grouped[date]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].Time < day[j].Time
		})
	}

	return grouped
}
