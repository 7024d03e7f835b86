package venues

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("venue not found")
	QueryTimeoutDuration = time.Second * 5
)

// Venue is immutable reference data in the booking flow; only admin
// operations touch it.
type Venue struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	PhotoURLs   []string  `json:"photo_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
