package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// GetAll lists orders; a nil customerID lists every customer's orders.
	GetAll(ctx context.Context, customerID *uint) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	// CreateFromCart converts the cart into an order for the customer in a
	// single transaction and deletes the cart.
	CreateFromCart(ctx context.Context, customerID uint, cartID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error

	ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	GetItem(ctx context.Context, orderID, itemID uint) (*models.OrderItem, error)
}
