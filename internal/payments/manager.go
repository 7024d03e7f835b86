package payments

import (
	"context"
	"fmt"
)

type Manager struct {
	gateways map[string]Gateway
}

func NewManager() *Manager {
	return &Manager{gateways: make(map[string]Gateway)}
}

func (m *Manager) RegisterGateway(name string, gateway Gateway) {
	m.gateways[name] = gateway
}

func (m *Manager) InitiatePayment(ctx context.Context, method string, req PaymentRequest) (PaymentResponse, error) {
	gateway, ok := m.gateways[method]
	if !ok {
		return PaymentResponse{}, fmt.Errorf("gateway not registered: %s", method)
	}
	return gateway.InitiatePayment(ctx, req)
}

func (m *Manager) VerifyPayment(ctx context.Context, method string, req VerifyRequest) (VerifyResponse, error) {
	gateway, ok := m.gateways[method]
	if !ok {
		return VerifyResponse{}, fmt.Errorf("gateway not registered: %s", method)
	}
	return gateway.VerifyPayment(ctx, req)
}
