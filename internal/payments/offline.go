package payments

import (
	"context"
	"fmt"
	"time"

	hashids "github.com/speps/go-hashids/v2"
)

// OfflineGateway is the stand-in provider: every payment succeeds
// immediately and gets an opaque receipt id. Used until a real gateway
// is wired in.
type OfflineGateway struct {
	h *hashids.HashID
}

func NewOfflineGateway(salt string) (*OfflineGateway, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 10

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &OfflineGateway{h: h}, nil
}

func (g *OfflineGateway) InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	receipt, err := g.h.EncodeInt64([]int64{req.UserID, req.SlotID, time.Now().UnixMilli()})
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("encode receipt: %w", err)
	}

	return PaymentResponse{
		PaymentID: "PAY-" + receipt,
		Status:    StatusCompleted,
	}, nil
}

// VerifyPayment decodes the receipt back; anything this gateway issued
// verifies.
func (g *OfflineGateway) VerifyPayment(ctx context.Context, req VerifyRequest) (VerifyResponse, error) {
	const prefix = "PAY-"
	if len(req.PaymentID) <= len(prefix) || req.PaymentID[:len(prefix)] != prefix {
		return VerifyResponse{PaymentID: req.PaymentID}, nil
	}

	_, err := g.h.DecodeInt64WithError(req.PaymentID[len(prefix):])
	if err != nil {
		return VerifyResponse{PaymentID: req.PaymentID}, nil
	}

	return VerifyResponse{PaymentID: req.PaymentID, Verified: true}, nil
}
