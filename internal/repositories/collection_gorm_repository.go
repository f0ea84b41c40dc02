package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{db: db}
}

// withProductCount annotates each collection row with the number of products in it.
func (r *GORMCollectionRepository) withProductCount(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Select("collections.*, (SELECT COUNT(*) FROM products WHERE products.collection_id = collections.id) AS product_count")
}

// GetAll retrieves all collections ordered by id.
func (r *GORMCollectionRepository) GetAll(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.withProductCount(ctx).Order("collections.id").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to get all collections: %w", err)
	}
	return collections, nil
}

// GetByID retrieves a single collection by its ID.
func (r *GORMCollectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.withProductCount(ctx).Where("collections.id = ?", id).Take(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by ID %d: %w", id, err)
	}
	return &collection, nil
}

// Create creates a new collection.
func (r *GORMCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Update saves title and image of an existing collection. Callers check
// existence first; some drivers report zero affected rows for no-op updates.
func (r *GORMCollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("id = ?", collection.ID).
		Updates(map[string]interface{}{"title": collection.Title, "image_url": collection.ImageURL}).Error
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	return nil
}

// Delete deletes a collection by its ID.
func (r *GORMCollectionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Collection{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountProducts returns how many products belong to the collection.
func (r *GORMCollectionRepository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("collection_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products of collection %d: %w", id, err)
	}
	return n, nil
}
