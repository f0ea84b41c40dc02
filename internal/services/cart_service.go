package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService manages anonymous carts. Carts are addressed by their UUID
// alone; no identity is involved.
type CartService struct {
	carts repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// CreateCart creates an empty cart with a fresh id.
func (s *CartService) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

// GetCart retrieves a cart with its items and their current products.
func (s *CartService) GetCart(ctx context.Context, id string) (*models.Cart, error) {
	if err := checkCartID(id); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, id)
}

// DeleteCart removes a cart and its items.
func (s *CartService) DeleteCart(ctx context.Context, id string) error {
	if err := checkCartID(id); err != nil {
		return err
	}
	return s.carts.Delete(ctx, id)
}

// ListItems lists the items of a cart.
func (s *CartService) ListItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}
	return s.carts.ListItems(ctx, cartID)
}

// GetItem retrieves one item of a cart.
func (s *CartService) GetItem(ctx context.Context, cartID string, itemID uint) (*models.CartItem, error) {
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}
	return s.carts.GetItem(ctx, cartID, itemID)
}

// AddItem adds quantity of a product to the cart. A product already in the
// cart has its quantity increased instead of getting a second line.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID uint, quantity int) (*models.CartItem, error) {
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return s.carts.AddItem(ctx, cartID, productID, quantity)
}

// UpdateItemQuantity replaces the quantity of a cart item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID string, itemID uint, quantity int) (*models.CartItem, error) {
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return s.carts.UpdateItemQuantity(ctx, cartID, itemID, quantity)
}

// RemoveItem removes an item from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, itemID uint) error {
	if err := checkCartID(cartID); err != nil {
		return err
	}
	return s.carts.DeleteItem(ctx, cartID, itemID)
}

// Total is the sum of quantity times current price over the cart's items.
func (s *CartService) Total(cart *models.Cart) decimal.Decimal {
	return cart.Total()
}

// checkCartID rejects ids that cannot name a cart.
func checkCartID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return nil
}
