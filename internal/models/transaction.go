package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a payment attempt
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one payment attempt against a cart. Rows are created in
// the pending state by the initiator and moved exactly once to a terminal
// state by the callback verifier; they are never deleted. A cart may own
// several transactions when the client retries with a fresh reference.
type Transaction struct {
	ID         int               `json:"id" db:"id"`
	Ref        string            `json:"ref" db:"ref"`
	CartID     int               `json:"cart_id" db:"cart_id"`
	Amount     decimal.Decimal   `json:"amount" db:"amount"`
	Currency   string            `json:"currency" db:"currency"`
	Status     TransactionStatus `json:"status" db:"status"`
	UserID     *int              `json:"user_id,omitempty" db:"user_id"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	ModifiedAt time.Time         `json:"modified_at" db:"modified_at"`
}

// TransactionCreateRequest represents the data needed to open a ledger entry
type TransactionCreateRequest struct {
	Ref      string
	CartID   int
	Amount   decimal.Decimal
	Currency string
	UserID   *int
}

// Validate validates transaction creation data
func (req *TransactionCreateRequest) Validate() error {
	if req.Ref == "" {
		return NewValidationError("transaction reference is required")
	}
	if req.CartID <= 0 {
		return NewValidationError("transaction cart is required")
	}
	if req.Amount.Sign() <= 0 {
		return NewValidationError("transaction amount must be positive")
	}
	if req.Currency == "" {
		return NewValidationError("transaction currency is required")
	}
	if len(req.Currency) > 10 {
		return NewValidationError("transaction currency must be at most 10 characters")
	}
	return nil
}

// GenerateReference generates a unique reference for one payment attempt.
// References are passed to the provider, echoed back in callbacks, and
// never reused across attempts.
func GenerateReference() string {
	return uuid.NewString()
}

// IsPending returns true if the transaction has not reached a terminal state
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionPending
}

// IsCompleted returns true if the transaction completed via verified confirmation
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionCompleted
}

// IsFailed returns true if the transaction failed
func (t *Transaction) IsFailed() bool {
	return t.Status == TransactionFailed
}

// CanTransition reports whether the transaction may move to the given
// status. The only legal moves are pending -> completed and pending -> failed.
func (t *Transaction) CanTransition(to TransactionStatus) bool {
	if t.Status != TransactionPending {
		return false
	}
	return to == TransactionCompleted || to == TransactionFailed
}

// ValidTransactionStatus reports whether s is a known status value
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed:
		return true
	default:
		return false
	}
}
