package payments

// PaymentRequest is keyed on the slot because payment is taken before
// the booking row exists.
type PaymentRequest struct {
	UserID   int64
	SlotID   int64
	Amount   float64
	Currency string
}

type PaymentResponse struct {
	PaymentID string
	Status    string
}

type VerifyRequest struct {
	PaymentID string
}

type VerifyResponse struct {
	PaymentID string
	Verified  bool
}

const (
	StatusCompleted = "completed"
)
