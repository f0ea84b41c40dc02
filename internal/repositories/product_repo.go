package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductFilter narrows product listings. Zero values mean no filtering.
type ProductFilter struct {
	CollectionID *uint
	Search       string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

// ProductImageRepository defines data access for images nested under a product.
type ProductImageRepository interface {
	List(ctx context.Context, productID uint) ([]models.ProductImage, error)
	GetByID(ctx context.Context, productID, id uint) (*models.ProductImage, error)
	Create(ctx context.Context, image *models.ProductImage) error
	Delete(ctx context.Context, productID, id uint) error
}

// ProductReviewRepository defines data access for reviews nested under a product.
type ProductReviewRepository interface {
	List(ctx context.Context, productID uint) ([]models.ProductReview, error)
	GetByID(ctx context.Context, productID, id uint) (*models.ProductReview, error)
	Create(ctx context.Context, review *models.ProductReview) error
	Update(ctx context.Context, review *models.ProductReview) error
	Delete(ctx context.Context, productID, id uint) error
}
