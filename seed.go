package main

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// seedCatalog populates an empty catalog with a few collections and products.
// It does nothing when any collection already exists.
func seedCatalog(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Collection{}).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to count collections: %w", err)
	}
	if n > 0 {
		slog.Info("catalog already seeded", "collections", n)
		return nil
	}

	catalog := map[string][]models.Product{
		"Electronics": {
			{Title: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00"), Inventory: 10, Manufacturer: "Acme"},
			{Title: "Keyboard", Description: "Mechanical keyboard", Price: decimal.RequireFromString("75.00"), Inventory: 25, Manufacturer: "Acme"},
			{Title: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.00"), Inventory: 50, Manufacturer: "Acme"},
		},
		"Kitchen": {
			{Title: "Mug", Description: "Stoneware mug", Price: decimal.RequireFromString("9.50"), Inventory: 100},
			{Title: "Frying pan", Description: "Cast iron, 28cm", Price: decimal.RequireFromString("39.90"), Inventory: 12},
		},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for title, products := range catalog {
			collection := models.Collection{Title: title}
			if err := tx.Create(&collection).Error; err != nil {
				return fmt.Errorf("error seeding collection %s: %w", title, err)
			}
			for i := range products {
				products[i].CollectionID = &collection.ID
			}
			if err := tx.Omit("Collection", "Images", "Reviews").Create(&products).Error; err != nil {
				return fmt.Errorf("error seeding products of %s: %w", title, err)
			}
			slog.Info("seeded collection", "collection", title, "id", collection.ID, "products", len(products))
		}
		return nil
	})
}
