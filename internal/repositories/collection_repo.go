package repositories

import (
	"context"

	"storefront/internal/models"
)

// CollectionRepository defines the interface for collection data access.
type CollectionRepository interface {
	GetAll(ctx context.Context) ([]models.Collection, error)
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	CountProducts(ctx context.Context, id uint) (int64, error)
}
