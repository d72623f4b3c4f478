package services

import (
	"context"
	"time"

	"shoppit/internal/models"
	"shoppit/internal/repositories"
)

// CartRepositoryInterface defines the cart store operations used by services
type CartRepositoryInterface interface {
	GetOrCreateByCode(code string) (*models.Cart, error)
	GetByCode(code string) (*models.Cart, error)
	GetActiveByCode(code string) (*models.Cart, error)
	AddItem(cartID, productID int) (*models.CartItem, error)
	UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error)
	DeleteItem(itemID int) error
	HasProduct(cartID, productID int) (bool, error)
	ItemsWithProducts(cartID int) ([]*repositories.CartItemDetail, error)
	ItemCount(cartID int) (int, error)
}

// ProductRepositoryInterface defines the product lookups used by services
type ProductRepositoryInterface interface {
	GetByID(id int) (*models.Product, error)
}

// TransactionRepositoryInterface defines the ledger operations used by services
type TransactionRepositoryInterface interface {
	Create(req *models.TransactionCreateRequest) (*models.Transaction, error)
	GetByRef(ref string) (*models.Transaction, error)
	Complete(ref string, userID *int) (bool, error)
	MarkFailed(ref string) (bool, error)
	FailStale(olderThan time.Duration) (int64, error)
}

// CartServiceInterface defines the interface for cart services
type CartServiceInterface interface {
	AddItem(cartCode string, productID int) (*repositories.CartItemDetail, error)
	UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error)
	RemoveItem(itemID int) error
	GetCart(cartCode string) (*CartView, error)
	GetCartStats(cartCode string) (*CartStats, error)
	HasProduct(cartCode string, productID int) (bool, error)
}

// CheckoutServiceInterface defines the interface for payment initiation
type CheckoutServiceInterface interface {
	InitiatePayment(ctx context.Context, gatewayName, cartCode string, user *models.User) (*PaymentInitiation, error)
}

// VerifierServiceInterface defines the interface for callback verification
type VerifierServiceInterface interface {
	ConfirmPayment(ctx context.Context, params *CallbackParams, user *models.User) (*VerificationResult, error)
}
