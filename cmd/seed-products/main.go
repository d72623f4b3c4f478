package main

import (
	"fmt"
	"log"

	"shoppit/internal/config"
	"shoppit/internal/database"
	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	slug        string
	description string
	price       decimal.Decimal
	category    string
}

func main() {
	fmt.Println("Seeding catalog products")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	products := []seedProduct{
		{"Wireless Headphones", "wireless-headphones", "Over-ear Bluetooth headphones with noise cancellation", decimal.RequireFromString("59.99"), models.CategoryElectronics},
		{"Bluetooth Speaker", "bluetooth-speaker", "Portable speaker with 12 hour battery life", decimal.RequireFromString("34.50"), models.CategoryElectronics},
		{"Organic Coffee Beans", "organic-coffee-beans", "1kg bag of single-origin arabica beans", decimal.RequireFromString("18.00"), models.CategoryGroceries},
		{"Olive Oil", "olive-oil", "500ml extra virgin olive oil", decimal.RequireFromString("9.75"), models.CategoryGroceries},
		{"Denim Jacket", "denim-jacket", "Classic fit denim jacket", decimal.RequireFromString("45.00"), models.CategoryClothing},
		{"Cotton T-Shirt", "cotton-t-shirt", "Plain crew-neck t-shirt", decimal.RequireFromString("12.00"), models.CategoryClothing},
	}

	created := 0
	for _, p := range products {
		result, err := db.DB.Exec(`
			INSERT INTO products (name, slug, description, price, category)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING`,
			p.name, p.slug, p.description, p.price, p.category)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.slug, err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			created++
			fmt.Printf("  created %s (%s)\n", p.name, p.price.StringFixed(2))
		} else {
			fmt.Printf("  skipped %s (already exists)\n", p.name)
		}
	}

	fmt.Printf("Done: %d of %d products created\n", created, len(products))
}
