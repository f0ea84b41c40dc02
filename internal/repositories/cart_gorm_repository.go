package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create inserts a cart, generating a random UUID when none is set.
func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByID returns the cart with its items and their live products.
func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", id, err)
	}
	return &cart, nil
}

// Delete removes a cart and all of its items.
func (r *GORMCartRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCart(tx, id)
	})
}

func deleteCart(tx *gorm.DB, id string) error {
	if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	res := tx.Where("id = ?", id).Delete(&models.Cart{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) ListItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	if err := r.requireCart(r.db.WithContext(ctx), cartID); err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").Where("cart_id = ?", cartID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items of cart %s: %w", cartID, err)
	}
	return items, nil
}

func (r *GORMCartRepository) GetItem(ctx context.Context, cartID string, itemID uint) (*models.CartItem, error) {
	return findItem(r.db.WithContext(ctx), cartID, itemID)
}

func findItem(db *gorm.DB, cartID string, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := db.Preload("Product").Where("cart_id = ?", cartID).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", itemID, err)
	}
	return &item, nil
}

// AddItem merges quantity into the existing line for (cartID, productID), or
// inserts a new line when the product is not in the cart yet.
func (r *GORMCartRepository) AddItem(ctx context.Context, cartID string, productID uint, quantity int) (*models.CartItem, error) {
	var result *models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireCart(tx, cartID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to look up product %d: %w", productID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: no product with the given ID %d was found", ErrInvalidInput, productID)
		}

		var existing models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).Take(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return fmt.Errorf("failed to increment cart item: %w", err)
			}
			result, err = findItem(tx, cartID, existing.ID)
			return err
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
			if err := tx.Omit("Product").Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
			result, err = findItem(tx, cartID, item.ID)
			return err
		default:
			return fmt.Errorf("failed to look up cart item: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItemQuantity replaces the quantity of a line.
func (r *GORMCartRepository) UpdateItemQuantity(ctx context.Context, cartID string, itemID uint, quantity int) (*models.CartItem, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		UpdateColumn("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	return findItem(db, cartID, itemID)
}

func (r *GORMCartRepository) DeleteItem(ctx context.Context, cartID string, itemID uint) error {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d: %w", itemID, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) requireCart(db *gorm.DB, cartID string) error {
	var n int64
	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up cart %s: %w", cartID, err)
	}
	if n == 0 {
		return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	return nil
}
