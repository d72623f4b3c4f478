package models

import (
	"strings"
	"time"
)

// Cart codes are client-chosen opaque identifiers correlating anonymous
// sessions to a cart row. The frontend generates an 11-character code.
const maxCartCodeLength = 11

// Cart represents a shopping cart. A cart is created lazily on the first
// item add and becomes immutable once Paid is set by a verified payment.
type Cart struct {
	ID         int       `json:"id" db:"id"`
	CartCode   string    `json:"cart_code" db:"cart_code"`
	UserID     *int      `json:"user_id,omitempty" db:"user_id"`
	Paid       bool      `json:"paid" db:"paid"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}

// CartItem represents one product line in a cart. A cart holds at most
// one row per product; re-adding a product resets the quantity to 1
// instead of creating a duplicate.
type CartItem struct {
	ID        int `json:"id" db:"id"`
	CartID    int `json:"cart_id" db:"cart_id"`
	ProductID int `json:"product_id" db:"product_id"`
	Quantity  int `json:"quantity" db:"quantity"`
}

// ValidateCartCode validates a client-supplied cart code
func ValidateCartCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return NewValidationError("cart code is required")
	}
	if len(code) > maxCartCodeLength {
		return NewValidationError("cart code must be at most %d characters", maxCartCodeLength)
	}
	return nil
}

// ValidateQuantity validates a cart item quantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity must be at least 1")
	}
	return nil
}
