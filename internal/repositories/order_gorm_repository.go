package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// GetAll lists orders with their items, oldest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context, customerID *uint) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Preload("Items", orderByID).Order("id")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderByID).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// CreateFromCart creates a pending order, copies every cart line into an order
// line with the product's price frozen at this instant, bulk-inserts the lines
// and deletes the cart. Either all of it is committed or none of it.
func (r *GORMOrderRepository) CreateFromCart(ctx context.Context, customerID uint, cartID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").First(&cart, "id = ?", cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
			}
			return fmt.Errorf("failed to load cart %s: %w", cartID, err)
		}
		if len(cart.Items) == 0 {
			return fmt.Errorf("cart %s: %w", cartID, ErrEmptyCart)
		}

		order = models.Order{CustomerID: customerID, PaymentStatus: models.PaymentPending}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: ci.Product.Price,
			})
		}
		if err := tx.Omit("Product").CreateInBatches(&items, 100).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items

		return deleteCart(tx, cartID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).UpdateColumn("payment_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	return nil
}

// Delete removes an order and its items.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMOrderRepository) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items of order %d: %w", orderID, err)
	}
	return items, nil
}

func (r *GORMOrderRepository) GetItem(ctx context.Context, orderID, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order item with ID %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order item %d: %w", itemID, err)
	}
	return &item, nil
}
