package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineGatewayAlwaysSucceeds(t *testing.T) {
	g, err := NewOfflineGateway("test-salt")
	require.NoError(t, err)

	resp, err := g.InitiatePayment(context.Background(), PaymentRequest{
		UserID:    7,
		SlotID: 42,
		Amount:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Regexp(t, `^PAY-`, resp.PaymentID)
}

func TestOfflineGatewayVerifiesOwnReceipts(t *testing.T) {
	g, err := NewOfflineGateway("test-salt")
	require.NoError(t, err)

	resp, err := g.InitiatePayment(context.Background(), PaymentRequest{UserID: 1, SlotID: 2})
	require.NoError(t, err)

	v, err := g.VerifyPayment(context.Background(), VerifyRequest{PaymentID: resp.PaymentID})
	require.NoError(t, err)
	assert.True(t, v.Verified)
}

func TestOfflineGatewayRejectsForeignReceipts(t *testing.T) {
	g, err := NewOfflineGateway("test-salt")
	require.NoError(t, err)

	v, err := g.VerifyPayment(context.Background(), VerifyRequest{PaymentID: "PAY-not-a-hashid"})
	require.NoError(t, err)
	assert.False(t, v.Verified)

	v, err = g.VerifyPayment(context.Background(), VerifyRequest{PaymentID: "garbage"})
	require.NoError(t, err)
	assert.False(t, v.Verified)
}

func TestManagerUnknownGateway(t *testing.T) {
	m := NewManager()

	_, err := m.InitiatePayment(context.Background(), "esewa", PaymentRequest{})
	assert.ErrorContains(t, err, "gateway not registered")
}

func TestManagerRoutesToRegisteredGateway(t *testing.T) {
	g, err := NewOfflineGateway("test-salt")
	require.NoError(t, err)

	m := NewManager()
	m.RegisterGateway("offline", g)

	resp, err := m.InitiatePayment(context.Background(), "offline", PaymentRequest{UserID: 1, SlotID: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, resp.Status)
}
