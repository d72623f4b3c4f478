package models

import (
	"github.com/shopspring/decimal"
)

// Product categories available in the catalog
const (
	CategoryElectronics = "Electronics"
	CategoryGroceries   = "Groceries"
	CategoryClothing    = "Clothing"
)

// Product represents a catalog product
type Product struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
}
