package services

import (
	"context"
	"fmt"
	"log"

	"shoppit/internal/models"
)

// VerificationOutcome classifies what a callback ended up doing
type VerificationOutcome string

const (
	// VerificationCompleted: first verified confirmation; ledger and cart updated.
	VerificationCompleted VerificationOutcome = "completed"
	// VerificationReplayed: the transaction was already terminal; nothing changed.
	VerificationReplayed VerificationOutcome = "replayed"
	// VerificationMismatch: provider record disagrees with the ledger; transaction failed.
	VerificationMismatch VerificationOutcome = "mismatch"
	// VerificationRejected: the callback itself reported a non-success; ledger untouched.
	VerificationRejected VerificationOutcome = "rejected"
)

// CallbackParams is a provider callback normalized by the HTTP layer.
// StatusFlag is the provider's own success marker from the callback query;
// it only gates whether verification runs at all. Financial facts are
// never taken from it.
type CallbackParams struct {
	Gateway           string
	StatusFlag        string
	Reference         string
	ProviderPaymentID string
}

// VerificationResult reports the outcome of one callback
type VerificationResult struct {
	Outcome     VerificationOutcome `json:"outcome"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// VerifierService reconciles provider callbacks against the ledger
type VerifierService struct {
	txns     TransactionRepositoryInterface
	gateways map[string]PaymentGateway
}

// NewVerifierService creates a new callback verifier
func NewVerifierService(txns TransactionRepositoryInterface, gateways ...PaymentGateway) *VerifierService {
	byName := make(map[string]PaymentGateway, len(gateways))
	for _, gw := range gateways {
		byName[gw.Name()] = gw
	}
	return &VerifierService{txns: txns, gateways: byName}
}

// ConfirmPayment runs the verification procedure for one callback:
//
//  1. A non-success status flag fails immediately without touching the ledger.
//  2. The provider's own API is re-queried for the authoritative record of
//     the payment; the callback payload only tells us which payment to check.
//  3. The provider's status, amount and currency are compared against the
//     stored transaction after normalizing to two decimal places.
//  4. On a full match the transaction becomes completed and the cart paid,
//     atomically and at most once; replays short-circuit on the guarded update.
//  5. On a mismatch the transaction is marked failed and the outcome is
//     distinct from a provider error.
func (s *VerifierService) ConfirmPayment(ctx context.Context, params *CallbackParams, user *models.User) (*VerificationResult, error) {
	if params.StatusFlag != string(ProviderSuccessful) {
		log.Printf("verifier: %s callback for ref=%s reported status %q, rejecting", params.Gateway, params.Reference, params.StatusFlag)
		return &VerificationResult{Outcome: VerificationRejected}, nil
	}

	gw, ok := s.gateways[params.Gateway]
	if !ok {
		return nil, models.NewValidationError("unknown payment gateway %q", params.Gateway)
	}

	txn, err := s.txns.GetByRef(params.Reference)
	if err != nil {
		return nil, err
	}

	// Cheap replay short-circuit; the guarded update below remains the
	// authority when callbacks race.
	if !txn.IsPending() {
		return &VerificationResult{Outcome: VerificationReplayed, Transaction: txn}, nil
	}

	provider, err := gw.VerifyPayment(ctx, params.ProviderPaymentID)
	if err != nil {
		log.Printf("verifier: %s verify failed for ref=%s payment=%s: %v", params.Gateway, params.Reference, params.ProviderPaymentID, err)
		return nil, err
	}

	if detail := matchProviderRecord(txn, provider); detail != "" {
		// Fraud-relevant: a forged or tampered callback would land here.
		log.Printf("verifier: MISMATCH for ref=%s via %s: %s", txn.Ref, params.Gateway, detail)
		if _, err := s.txns.MarkFailed(txn.Ref); err != nil {
			return nil, err
		}
		return &VerificationResult{Outcome: VerificationMismatch, Transaction: txn}, nil
	}

	var userID *int
	if user != nil {
		userID = &user.ID
	}

	completed, err := s.txns.Complete(txn.Ref, userID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return &VerificationResult{Outcome: VerificationReplayed, Transaction: txn}, nil
	}

	log.Printf("verifier: completed ref=%s via %s amount=%s %s", txn.Ref, params.Gateway, txn.Amount.StringFixed(2), txn.Currency)
	return &VerificationResult{Outcome: VerificationCompleted, Transaction: txn}, nil
}

// matchProviderRecord compares the provider's record against the ledger
// entry and returns a human-readable description of the first difference,
// or "" when everything matches.
func matchProviderRecord(txn *models.Transaction, provider *ProviderTransaction) string {
	if provider.Status != ProviderSuccessful {
		return fmt.Sprintf("provider status is %q", provider.Status)
	}
	if !provider.Amount.Round(2).Equal(txn.Amount.Round(2)) {
		return fmt.Sprintf("provider amount %s != ledger amount %s", provider.Amount.StringFixed(2), txn.Amount.StringFixed(2))
	}
	if provider.Currency != txn.Currency {
		return fmt.Sprintf("provider currency %q != ledger currency %q", provider.Currency, txn.Currency)
	}
	return ""
}
