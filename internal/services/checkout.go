package services

import (
	"context"
	"fmt"
	"log"

	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

// CheckoutService is the payment initiator: it locks in a cart total,
// opens a pending ledger entry, and delegates to an external gateway for
// the redirect/approval target.
type CheckoutService struct {
	carts    CartRepositoryInterface
	txns     TransactionRepositoryInterface
	gateways map[string]PaymentGateway
	currency string
	fixedTax decimal.Decimal
}

// NewCheckoutService creates a new checkout service. Gateways are keyed by
// their Name().
func NewCheckoutService(carts CartRepositoryInterface, txns TransactionRepositoryInterface, currency string, fixedTax decimal.Decimal, gateways ...PaymentGateway) *CheckoutService {
	byName := make(map[string]PaymentGateway, len(gateways))
	for _, gw := range gateways {
		byName[gw.Name()] = gw
	}
	return &CheckoutService{
		carts:    carts,
		txns:     txns,
		gateways: byName,
		currency: currency,
		fixedTax: fixedTax,
	}
}

// PaymentInitiation is the outcome of a successful initiation
type PaymentInitiation struct {
	Reference   string          `json:"reference"`
	RedirectURL string          `json:"redirect_url"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// InitiatePayment computes the cart total (item subtotal plus the fixed
// tax), persists a pending transaction under a fresh reference, and asks
// the gateway for a redirect target. If the gateway call fails the pending
// ledger row is deliberately left in place: the sweeper reconciles
// orphaned attempts by status, and retries always use a new reference.
func (s *CheckoutService) InitiatePayment(ctx context.Context, gatewayName, cartCode string, user *models.User) (*PaymentInitiation, error) {
	if user == nil {
		return nil, models.ErrAuthRequired
	}

	gw, ok := s.gateways[gatewayName]
	if !ok {
		return nil, models.NewValidationError("unknown payment gateway %q", gatewayName)
	}

	cart, err := s.carts.GetActiveByCode(cartCode)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.ItemsWithProducts(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewValidationError("cart %s is empty", cartCode)
	}

	total := SumItems(items).Add(s.fixedTax)
	ref := models.GenerateReference()

	txn, err := s.txns.Create(&models.TransactionCreateRequest{
		Ref:      ref,
		CartID:   cart.ID,
		Amount:   total,
		Currency: s.currency,
		UserID:   &user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger entry for cart %s: %w", cartCode, err)
	}

	target, err := gw.CreatePayment(ctx, &CreatePaymentRequest{
		Reference: txn.Ref,
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		Customer: PaymentCustomer{
			Email: user.Email,
			Name:  user.DisplayName(),
			Phone: user.Phone,
		},
	})
	if err != nil {
		// The pending row stays behind on purpose; see the sweeper.
		log.Printf("checkout: %s create payment failed for ref=%s cart=%s: %v", gatewayName, txn.Ref, cartCode, err)
		return nil, err
	}

	log.Printf("checkout: initiated %s payment ref=%s cart=%s amount=%s %s", gatewayName, txn.Ref, cartCode, txn.Amount.StringFixed(2), txn.Currency)

	return &PaymentInitiation{
		Reference:   txn.Ref,
		RedirectURL: target.URL,
		Amount:      txn.Amount,
		Currency:    txn.Currency,
	}, nil
}
