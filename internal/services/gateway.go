package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProviderStatus is a gateway-neutral payment status
type ProviderStatus string

const (
	ProviderSuccessful ProviderStatus = "successful"
	ProviderPending    ProviderStatus = "pending"
	ProviderFailed     ProviderStatus = "failed"
)

// PaymentCustomer identifies the paying customer to the gateway
type PaymentCustomer struct {
	Email string
	Name  string
	Phone string
}

// CreatePaymentRequest carries everything a gateway needs to open a payment
type CreatePaymentRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Customer  PaymentCustomer
}

// RedirectTarget is where the client must be sent to approve the payment.
// ProviderRef is the gateway's own identifier for the payment when the
// create call already yields one (PayPal does, Flutterwave does not).
type RedirectTarget struct {
	URL         string `json:"url"`
	ProviderRef string `json:"provider_ref,omitempty"`
}

// ProviderTransaction is the gateway's authoritative record of a payment,
// obtained by re-querying the provider rather than trusting callback data.
type ProviderTransaction struct {
	Status    ProviderStatus
	Amount    decimal.Decimal
	Currency  string
	Reference string
}

// PaymentGateway abstracts an external payment provider so the initiator
// and verifier stay provider-agnostic. One implementation per provider.
type PaymentGateway interface {
	Name() string
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error)
	VerifyPayment(ctx context.Context, providerID string) (*ProviderTransaction, error)
}
