package handlers

import (
	"context"

	"shoppit/internal/models"
	"shoppit/internal/repositories"
	"shoppit/internal/services"
)

// Mock services for handler tests

type mockCartService struct {
	addItemFunc            func(cartCode string, productID int) (*repositories.CartItemDetail, error)
	updateItemQuantityFunc func(itemID, quantity int) (*models.CartItem, error)
	removeItemFunc         func(itemID int) error
	getCartFunc            func(cartCode string) (*services.CartView, error)
	getCartStatsFunc       func(cartCode string) (*services.CartStats, error)
	hasProductFunc         func(cartCode string, productID int) (bool, error)
}

func (m *mockCartService) AddItem(cartCode string, productID int) (*repositories.CartItemDetail, error) {
	return m.addItemFunc(cartCode, productID)
}

func (m *mockCartService) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	return m.updateItemQuantityFunc(itemID, quantity)
}

func (m *mockCartService) RemoveItem(itemID int) error {
	return m.removeItemFunc(itemID)
}

func (m *mockCartService) GetCart(cartCode string) (*services.CartView, error) {
	return m.getCartFunc(cartCode)
}

func (m *mockCartService) GetCartStats(cartCode string) (*services.CartStats, error) {
	return m.getCartStatsFunc(cartCode)
}

func (m *mockCartService) HasProduct(cartCode string, productID int) (bool, error) {
	return m.hasProductFunc(cartCode, productID)
}

type mockCheckoutService struct {
	initiateFunc func(ctx context.Context, gatewayName, cartCode string, user *models.User) (*services.PaymentInitiation, error)
}

func (m *mockCheckoutService) InitiatePayment(ctx context.Context, gatewayName, cartCode string, user *models.User) (*services.PaymentInitiation, error) {
	return m.initiateFunc(ctx, gatewayName, cartCode, user)
}

type mockVerifierService struct {
	confirmFunc func(ctx context.Context, params *services.CallbackParams, user *models.User) (*services.VerificationResult, error)
}

func (m *mockVerifierService) ConfirmPayment(ctx context.Context, params *services.CallbackParams, user *models.User) (*services.VerificationResult, error) {
	return m.confirmFunc(ctx, params, user)
}
