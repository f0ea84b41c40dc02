package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products with their images and reviews.
func (r *GORMProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Preload("Images").Preload("Reviews").Order("id")
	if filter.CollectionID != nil {
		q = q.Where("collection_id = ?", *filter.CollectionID)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Images").Preload("Reviews").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit("Images", "Reviews", "Collection").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes every editable column of product, including zero values.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.LastUpdate = time.Now()
	err := r.db.WithContext(ctx).Model(&models.Product{ID: product.ID}).
		Select("title", "description", "price", "inventory", "manufacturer", "collection_id", "last_update").
		Updates(product).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete removes a product together with its images, reviews and cart lines.
// A product referenced by any order line is kept and ErrHasDependents returned.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ordered int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
			return fmt.Errorf("failed to count order items of product %d: %w", id, err)
		}
		if ordered > 0 {
			return fmt.Errorf("product %d is associated with %d order items: %w", id, ordered, ErrHasDependents)
		}
		for _, owned := range []interface{}{&models.ProductImage{}, &models.ProductReview{}, &models.CartItem{}} {
			if err := tx.Where("product_id = ?", id).Delete(owned).Error; err != nil {
				return fmt.Errorf("failed to delete product dependents: %w", err)
			}
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GORMProductImageRepository is a GORM implementation of ProductImageRepository.
type GORMProductImageRepository struct {
	db *gorm.DB
}

// NewGORMProductImageRepository creates a new instance of GORMProductImageRepository.
func NewGORMProductImageRepository(db *gorm.DB) *GORMProductImageRepository {
	return &GORMProductImageRepository{db: db}
}

func (r *GORMProductImageRepository) List(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images of product %d: %w", productID, err)
	}
	return images, nil
}

func (r *GORMProductImageRepository) GetByID(ctx context.Context, productID, id uint) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("image with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}
	return &image, nil
}

func (r *GORMProductImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}

func (r *GORMProductImageRepository) Delete(ctx context.Context, productID, id uint) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductImage{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("image with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// GORMProductReviewRepository is a GORM implementation of ProductReviewRepository.
type GORMProductReviewRepository struct {
	db *gorm.DB
}

// NewGORMProductReviewRepository creates a new instance of GORMProductReviewRepository.
func NewGORMProductReviewRepository(db *gorm.DB) *GORMProductReviewRepository {
	return &GORMProductReviewRepository{db: db}
}

func (r *GORMProductReviewRepository) List(ctx context.Context, productID uint) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}

func (r *GORMProductReviewRepository) GetByID(ctx context.Context, productID, id uint) (*models.ProductReview, error) {
	var review models.ProductReview
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return &review, nil
}

func (r *GORMProductReviewRepository) Create(ctx context.Context, review *models.ProductReview) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create product review: %w", err)
	}
	return nil
}

func (r *GORMProductReviewRepository) Update(ctx context.Context, review *models.ProductReview) error {
	err := r.db.WithContext(ctx).Model(&models.ProductReview{ID: review.ID}).
		Where("product_id = ?", review.ProductID).
		Select("customer_name", "description").
		Updates(review).Error
	if err != nil {
		return fmt.Errorf("failed to update product review: %w", err)
	}
	return nil
}

func (r *GORMProductReviewRepository) Delete(ctx context.Context, productID, id uint) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductReview{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
