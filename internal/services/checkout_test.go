package services

import (
	"context"
	"errors"
	"testing"

	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

func newCheckoutFixture() (*mockCartRepository, *mockTransactionRepository, *stubGateway, *CheckoutService) {
	cartRepo := newMockCartRepository()
	txnRepo := newMockTransactionRepository()
	gateway := &stubGateway{name: "flutterwave"}
	service := NewCheckoutService(cartRepo, txnRepo, "USD", decimal.RequireFromString("4.00"), gateway)
	return cartRepo, txnRepo, gateway, service
}

func TestInitiatePayment(t *testing.T) {
	user := &models.User{ID: 7, Email: "buyer@example.com", FirstName: "Jane", LastName: "Buyer"}

	t.Run("charges item subtotal plus fixed tax", func(t *testing.T) {
		cartRepo, txnRepo, _, service := newCheckoutFixture()
		cart := cartRepo.addCart("abc12345678", false)
		cartRepo.addItem(cart.ID, 1, 2, "Widget", "widget", "10.00")

		initiation, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", user)
		if err != nil {
			t.Fatalf("InitiatePayment failed: %v", err)
		}

		// 10.00 x 2 + 4.00 tax
		if initiation.Amount.StringFixed(2) != "24.00" {
			t.Errorf("expected amount 24.00, got %s", initiation.Amount.StringFixed(2))
		}
		if initiation.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", initiation.Currency)
		}
		if initiation.Reference == "" {
			t.Error("expected a non-empty reference")
		}
		if initiation.RedirectURL != "https://pay.example.com/redirect" {
			t.Errorf("unexpected redirect URL %s", initiation.RedirectURL)
		}

		txn, err := txnRepo.GetByRef(initiation.Reference)
		if err != nil {
			t.Fatalf("expected a ledger entry for %s: %v", initiation.Reference, err)
		}
		if !txn.IsPending() {
			t.Errorf("expected pending transaction, got %s", txn.Status)
		}
		if txn.UserID == nil || *txn.UserID != user.ID {
			t.Error("expected transaction to record the initiating user")
		}
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		_, _, _, service := newCheckoutFixture()

		_, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", nil)
		if !errors.Is(err, models.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("rejects unknown gateway", func(t *testing.T) {
		_, _, _, service := newCheckoutFixture()

		_, err := service.InitiatePayment(context.Background(), "stripe", "abc12345678", user)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects unknown cart", func(t *testing.T) {
		_, _, _, service := newCheckoutFixture()

		_, err := service.InitiatePayment(context.Background(), "flutterwave", "nosuchcart1", user)
		if !errors.Is(err, models.ErrCartNotFound) {
			t.Errorf("expected ErrCartNotFound, got %v", err)
		}
	})

	t.Run("rejects paid cart", func(t *testing.T) {
		cartRepo, _, _, service := newCheckoutFixture()
		cartRepo.addCart("paidcart001", true)

		_, err := service.InitiatePayment(context.Background(), "flutterwave", "paidcart001", user)
		if !errors.Is(err, models.ErrCartNotFound) {
			t.Errorf("expected ErrCartNotFound for paid cart, got %v", err)
		}
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		cartRepo, txnRepo, _, service := newCheckoutFixture()
		cartRepo.addCart("emptycart01", false)

		_, err := service.InitiatePayment(context.Background(), "flutterwave", "emptycart01", user)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected validation error for empty cart, got %v", err)
		}
		if len(txnRepo.transactions) != 0 {
			t.Error("no ledger entry should be opened for an empty cart")
		}
	})

	t.Run("gateway failure leaves the pending entry in place", func(t *testing.T) {
		cartRepo, txnRepo, gateway, service := newCheckoutFixture()
		cart := cartRepo.addCart("abc12345678", false)
		cartRepo.addItem(cart.ID, 1, 1, "Widget", "widget", "10.00")

		gateway.createFunc = func(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
			return nil, &models.UpstreamError{Gateway: "flutterwave", Err: errors.New("timeout")}
		}

		_, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", user)
		var upstreamErr *models.UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if txnRepo.pendingCount() != 1 {
			t.Errorf("expected 1 pending entry for the sweeper, got %d", txnRepo.pendingCount())
		}
	})

	t.Run("each attempt gets a fresh reference", func(t *testing.T) {
		cartRepo, _, _, service := newCheckoutFixture()
		cart := cartRepo.addCart("abc12345678", false)
		cartRepo.addItem(cart.ID, 1, 1, "Widget", "widget", "10.00")

		first, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", user)
		if err != nil {
			t.Fatalf("first initiation failed: %v", err)
		}
		second, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", user)
		if err != nil {
			t.Fatalf("second initiation failed: %v", err)
		}
		if first.Reference == second.Reference {
			t.Error("retry must not reuse the previous reference")
		}
	})

	t.Run("forwards customer details to the gateway", func(t *testing.T) {
		cartRepo, _, gateway, service := newCheckoutFixture()
		cart := cartRepo.addCart("abc12345678", false)
		cartRepo.addItem(cart.ID, 1, 1, "Widget", "widget", "10.00")

		var captured *CreatePaymentRequest
		gateway.createFunc = func(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
			captured = req
			return &RedirectTarget{URL: "https://pay.example.com/redirect"}, nil
		}

		if _, err := service.InitiatePayment(context.Background(), "flutterwave", "abc12345678", user); err != nil {
			t.Fatalf("InitiatePayment failed: %v", err)
		}
		if captured == nil {
			t.Fatal("gateway was not called")
		}
		if captured.Customer.Email != "buyer@example.com" {
			t.Errorf("expected customer email forwarded, got %q", captured.Customer.Email)
		}
		if captured.Customer.Name != "Jane Buyer" {
			t.Errorf("expected customer name forwarded, got %q", captured.Customer.Name)
		}
	})
}
