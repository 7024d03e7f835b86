package bookings

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("booking not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// ValidPaymentStatus reports whether s is one of the payment statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Booking is append-mostly: created once by the submit workflow, then
// only its payment fields ever change.
type Booking struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	SlotID         int64     `json:"slot_id"`
	BookingDate    time.Time `json:"booking_date"`
	TotalAmount    float64   `json:"total_amount"`
	DiscountAmount float64   `json:"discount_amount"`
	FinalAmount    float64   `json:"final_amount"`
	CouponID       *int64    `json:"coupon_id,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentID      *string   `json:"payment_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Detail joins a booking with the slot, ground, venue and coupon data
// the confirmation view deep-links to.
type Detail struct {
	Booking
	SlotDate      time.Time `json:"slot_date"`
	SlotStartTime time.Time `json:"slot_start_time"`
	SlotEndTime   time.Time `json:"slot_end_time"`
	GroundName    string    `json:"ground_name"`
	SportType     string    `json:"sport_type"`
	VenueName     string    `json:"venue_name"`
	CouponCode    *string   `json:"coupon_code,omitempty"`
}
