package slots

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("time slot not found")
	ErrNotAvailable      = errors.New("time slot is no longer available")
	QueryTimeoutDuration = time.Second * 5
)

const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusBlocked   = "blocked"
)

// ValidStatus reports whether s is one of the slot status enumeration.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked:
		return true
	}
	return false
}

// TimeSlot is one bookable unit: a ground, a date and a time range with
// a price. Status is the only field that mutates in the booking flow.
type TimeSlot struct {
	ID           int64     `json:"id"`
	GroundID     int64     `json:"ground_id"`
	Date         time.Time `json:"date"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	IsHotSelling bool      `json:"is_hot_selling"`
	CreatedAt    time.Time `json:"created_at"`
}

// AvailableSlot is a slot joined with its ground and venue for the
// cross-venue availability listing.
type AvailableSlot struct {
	TimeSlot
	GroundName string `json:"ground_name"`
	SportType  string `json:"sport_type"`
	VenueID    int64  `json:"venue_id"`
	VenueName  string `json:"venue_name"`
}
