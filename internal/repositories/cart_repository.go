package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines data access for carts and their items.
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	GetByID(ctx context.Context, id string) (*models.Cart, error)
	Delete(ctx context.Context, id string) error

	ListItems(ctx context.Context, cartID string) ([]models.CartItem, error)
	GetItem(ctx context.Context, cartID string, itemID uint) (*models.CartItem, error)
	AddItem(ctx context.Context, cartID string, productID uint, quantity int) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID string, itemID uint, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, cartID string, itemID uint) error
}
