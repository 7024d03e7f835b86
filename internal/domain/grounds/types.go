package grounds

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("ground not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	SportBadminton = "badminton"
	SportCricket   = "cricket"
	SportTennis    = "tennis"
)

// ValidSport reports whether s is one of the fixed sport enumeration.
func ValidSport(s string) bool {
	switch s {
	case SportBadminton, SportCricket, SportTennis:
		return true
	}
	return false
}

type Ground struct {
	ID           int64     `json:"id"`
	VenueID      int64     `json:"venue_id"`
	Name         string    `json:"name"`
	SportType    string    `json:"sport_type"`
	GroundNumber int       `json:"ground_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter narrows a ground listing; nil fields are ignored.
type Filter struct {
	VenueID   *int64
	SportType *string
}
