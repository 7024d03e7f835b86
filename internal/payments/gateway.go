package payments

import "context"

// Gateway is a common interface over payment providers.
type Gateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	VerifyPayment(ctx context.Context, req VerifyRequest) (VerifyResponse, error)
}
