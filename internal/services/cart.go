package services

import (
	"fmt"

	"shoppit/internal/models"
	"shoppit/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartService implements the cart/item store rules
type CartService struct {
	carts    CartRepositoryInterface
	products ProductRepositoryInterface
}

// NewCartService creates a new cart service
func NewCartService(carts CartRepositoryInterface, products ProductRepositoryInterface) *CartService {
	return &CartService{carts: carts, products: products}
}

// CartView is a cart with its items and running total for client display
type CartView struct {
	Cart  *models.Cart                   `json:"cart"`
	Items []*repositories.CartItemDetail `json:"items"`
	Total decimal.Decimal                `json:"total"`
}

// CartStats is the lightweight cart summary used by the storefront badge
type CartStats struct {
	CartCode  string `json:"cart_code"`
	ItemCount int    `json:"item_count"`
}

// AddItem puts a product into a cart, creating the cart on first use.
// Re-adding a product that is already in the cart resets its quantity to 1.
func (s *CartService) AddItem(cartCode string, productID int) (*repositories.CartItemDetail, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreateByCode(cartCode)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.AddItem(cart.ID, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart %s: %w", cartCode, err)
	}

	return &repositories.CartItemDetail{
		CartItem:     *item,
		ProductName:  product.Name,
		ProductSlug:  product.Slug,
		ProductPrice: product.Price,
	}, nil
}

// UpdateItemQuantity sets the quantity of an existing cart item
func (s *CartService) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	return s.carts.UpdateItemQuantity(itemID, quantity)
}

// RemoveItem deletes a cart item
func (s *CartService) RemoveItem(itemID int) error {
	return s.carts.DeleteItem(itemID)
}

// GetCart returns an unpaid cart with its items and total
func (s *CartService) GetCart(cartCode string) (*CartView, error) {
	cart, err := s.carts.GetActiveByCode(cartCode)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.ItemsWithProducts(cart.ID)
	if err != nil {
		return nil, err
	}

	return &CartView{
		Cart:  cart,
		Items: items,
		Total: SumItems(items),
	}, nil
}

// GetCartStats returns the item count for an unpaid cart
func (s *CartService) GetCartStats(cartCode string) (*CartStats, error) {
	cart, err := s.carts.GetActiveByCode(cartCode)
	if err != nil {
		return nil, err
	}

	count, err := s.carts.ItemCount(cart.ID)
	if err != nil {
		return nil, err
	}

	return &CartStats{CartCode: cart.CartCode, ItemCount: count}, nil
}

// HasProduct reports whether the cart contains the product
func (s *CartService) HasProduct(cartCode string, productID int) (bool, error) {
	cart, err := s.carts.GetByCode(cartCode)
	if err != nil {
		return false, err
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return false, err
	}

	return s.carts.HasProduct(cart.ID, product.ID)
}

// SumItems computes the item subtotal of a cart in exact decimal arithmetic
func SumItems(items []*repositories.CartItemDetail) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
