package repositories

import (
	"context"

	"storefront/internal/models"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	CountOrders(ctx context.Context, id uint) (int64, error)
}

// AddressRepository defines data access for addresses nested under a customer.
type AddressRepository interface {
	List(ctx context.Context, customerID uint) ([]models.Address, error)
	GetByID(ctx context.Context, customerID, id uint) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, customerID, id uint) error
}
