package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/models"
	"storefront/internal/policy"
	"storefront/internal/repositories"
	"storefront/pkg/metrics"
	"storefront/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	publisher MessagePublisher // may be nil
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are published.
func NewOrderService(orders repositories.OrderRepository, customers repositories.CustomerRepository, publisher MessagePublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		publisher: publisher,
	}
}

// PlaceOrder converts the cart into an order owned by the caller's customer.
// The conversion is atomic; on any failure no order exists and the cart is
// unchanged.
func (s *OrderService) PlaceOrder(ctx context.Context, caller *policy.Identity, cartID string) (*models.Order, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateFromCart(ctx, customer.ID, cartID)
	if err != nil {
		return nil, err
	}

	metrics.ObserveOrderPlaced(len(order.Items))
	s.publishOrderPlaced(order, cartID)
	return order, nil
}

func (s *OrderService) publishOrderPlaced(order *models.Order, cartID string) {
	if s.publisher == nil {
		slog.Debug("no message publisher configured, skipping order event", "order_id", order.ID)
		return
	}

	body, err := json.Marshal(OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		CartID:     cartID,
		Items:      len(order.Items),
		Total:      orderTotal(order.Items),
		PlacedAt:   order.PlacedAt,
	})
	if err != nil {
		slog.Error("failed to marshal order event", "order_id", order.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.ExchangeOrders, rabbitmq.RoutingKeyOrderPlaced, body); err != nil {
		slog.Warn("failed to publish order placed event", "order_id", order.ID, "error", err)
	}
}

func orderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ListOrders lists every order for staff, otherwise only the caller's own.
func (s *OrderService) ListOrders(ctx context.Context, caller *policy.Identity) ([]models.Order, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.IsStaff {
		return s.orders.GetAll(ctx, nil)
	}
	customer, err := s.customers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	return s.orders.GetAll(ctx, &customer.ID)
}

// GetOrder retrieves an order visible to caller.
func (s *OrderService) GetOrder(ctx context.Context, caller *policy.Identity, id uint) (*models.Order, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return order, nil
	}
	customer, err := s.customers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	return order, nil
}

// UpdatePaymentStatus sets the payment status of an order visible to caller.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, caller *policy.Identity, id uint, status string) (*models.Order, error) {
	if !models.IsValidPaymentStatus(status) {
		return nil, fmt.Errorf("invalid payment status %q: %w", status, ErrInvalidInput)
	}
	order, err := s.GetOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update payment status for order %d: %w", id, err)
	}
	order.PaymentStatus = status
	return order, nil
}

// DeleteOrder removes an order visible to caller together with its items.
func (s *OrderService) DeleteOrder(ctx context.Context, caller *policy.Identity, id uint) error {
	if _, err := s.GetOrder(ctx, caller, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// ListItems lists the items of an order visible to caller.
func (s *OrderService) ListItems(ctx context.Context, caller *policy.Identity, orderID uint) ([]models.OrderItem, error) {
	if _, err := s.GetOrder(ctx, caller, orderID); err != nil {
		return nil, err
	}
	return s.orders.ListItems(ctx, orderID)
}

// GetItem retrieves one item of an order visible to caller.
func (s *OrderService) GetItem(ctx context.Context, caller *policy.Identity, orderID, itemID uint) (*models.OrderItem, error) {
	if _, err := s.GetOrder(ctx, caller, orderID); err != nil {
		return nil, err
	}
	return s.orders.GetItem(ctx, orderID, itemID)
}
