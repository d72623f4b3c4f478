package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

// CartRepository handles cart and cart item data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// CartItemDetail is a cart item joined with its product, as needed for
// totals and client display.
type CartItemDetail struct {
	models.CartItem
	ProductName  string          `json:"product_name" db:"product_name"`
	ProductSlug  string          `json:"product_slug" db:"product_slug"`
	ProductPrice decimal.Decimal `json:"product_price" db:"product_price"`
}

// Subtotal returns price x quantity for this line
func (d *CartItemDetail) Subtotal() decimal.Decimal {
	return d.ProductPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// GetOrCreateByCode returns the cart for the given code, creating it if it
// does not exist yet. Carts come into being lazily on the first item add.
func (r *CartRepository) GetOrCreateByCode(code string) (*models.Cart, error) {
	if err := models.ValidateCartCode(code); err != nil {
		return nil, err
	}

	now := time.Now()
	_, err := r.db.Exec(`
		INSERT INTO carts (cart_code, created_at, modified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_code) DO NOTHING`,
		code, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return r.GetByCode(code)
}

// GetByCode retrieves a cart by its code regardless of paid state
func (r *CartRepository) GetByCode(code string) (*models.Cart, error) {
	return r.getByCode(code, false)
}

// GetActiveByCode retrieves an unpaid cart by its code. Paid carts are
// conceptually immutable and no longer visible to the cart endpoints.
func (r *CartRepository) GetActiveByCode(code string) (*models.Cart, error) {
	return r.getByCode(code, true)
}

func (r *CartRepository) getByCode(code string, unpaidOnly bool) (*models.Cart, error) {
	query := `
		SELECT id, cart_code, user_id, paid, created_at, modified_at
		FROM carts
		WHERE cart_code = $1`
	if unpaidOnly {
		query += ` AND paid = FALSE`
	}

	cart := &models.Cart{}
	err := r.db.QueryRow(query, code).Scan(
		&cart.ID,
		&cart.CartCode,
		&cart.UserID,
		&cart.Paid,
		&cart.CreatedAt,
		&cart.ModifiedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product to a cart with quantity 1. Adding is get-or-create
// on (cart, product): a second add of the same product resets its quantity
// to 1 instead of inserting a duplicate row or summing quantities. Quantity
// changes go through UpdateItemQuantity.
func (r *CartRepository) AddItem(cartID, productID int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = 1
		RETURNING id, cart_id, product_id, quantity`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return item, nil
}

// UpdateItemQuantity sets the quantity of an existing cart item
func (r *CartRepository) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	query := `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1
		RETURNING id, cart_id, product_id, quantity`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, itemID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return item, nil
}

// DeleteItem removes a cart item
func (r *CartRepository) DeleteItem(itemID int) error {
	result, err := r.db.Exec("DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCartItemNotFound
	}

	return nil
}

// HasProduct reports whether the cart already contains the product
func (r *CartRepository) HasProduct(cartID, productID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM cart_items WHERE cart_id = $1 AND product_id = $2)",
		cartID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cart item existence: %w", err)
	}
	return exists, nil
}

// ItemsWithProducts retrieves a cart's items joined with product details
func (r *CartRepository) ItemsWithProducts(cartID int) ([]*CartItemDetail, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
			p.name AS product_name, p.slug AS product_slug, p.price AS product_price
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	rows, err := r.db.Query(query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var items []*CartItemDetail
	for rows.Next() {
		item := &CartItemDetail{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.ProductName,
			&item.ProductSlug,
			&item.ProductPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// ItemCount returns the total quantity of items in the cart
func (r *CartRepository) ItemCount(cartID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE cart_id = $1",
		cartID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}
