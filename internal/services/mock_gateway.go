package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// MockGateway is a stand-in payment gateway used when no provider
// credentials are configured. It approves every payment it created and
// remembers the quoted amount so the verifier flow stays exercisable in
// development.
type MockGateway struct {
	name string

	mu       sync.Mutex
	payments map[string]*ProviderTransaction
	nextID   int
}

// NewMockGateway creates a mock gateway masquerading as the named provider
func NewMockGateway(name string) *MockGateway {
	log.Printf("Payment gateway %q: using mock (no credentials provided)", name)
	return &MockGateway{
		name:     name,
		payments: make(map[string]*ProviderTransaction),
	}
}

// Name returns the gateway identifier
func (g *MockGateway) Name() string {
	return g.name
}

// CreatePayment records the quote and hands back a fake approval URL
func (g *MockGateway) CreatePayment(_ context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	providerRef := fmt.Sprintf("MOCK-%s-%d", g.name, g.nextID)
	g.payments[providerRef] = &ProviderTransaction{
		Status:    ProviderSuccessful,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reference: req.Reference,
	}

	return &RedirectTarget{
		URL:         fmt.Sprintf("https://mock.%s.invalid/approve/%s", g.name, providerRef),
		ProviderRef: providerRef,
	}, nil
}

// VerifyPayment returns the recorded quote for a known provider ref
func (g *MockGateway) VerifyPayment(_ context.Context, providerID string) (*ProviderTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if pt, ok := g.payments[providerID]; ok {
		return pt, nil
	}
	return &ProviderTransaction{Status: ProviderFailed, Amount: decimal.Zero}, nil
}
