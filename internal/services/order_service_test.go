package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/policy"
	"storefront/internal/services"
	"storefront/pkg/metrics"
	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	caller := &policy.Identity{UserID: "user-1", Username: "alice"}
	customer := &models.Customer{ID: 7, UserID: "user-1"}

	t.Run("creates order and publishes event", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		mq := new(MockRabbitMQClient)
		svc := services.NewOrderService(orders, customers, mq)
		cartID := uuid.NewString()

		placed := &models.Order{
			ID:            3,
			CustomerID:    7,
			PaymentStatus: models.PaymentPending,
			Items: []models.OrderItem{
				{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
				{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
			},
		}
		customers.On("GetByUserID", mock.Anything, "user-1").Return(customer, nil).Once()
		orders.On("CreateFromCart", mock.Anything, uint(7), cartID).Return(placed, nil).Once()
		mq.On("Publish", rabbitmq.ExchangeOrders, rabbitmq.RoutingKeyOrderPlaced, mock.MatchedBy(func(body []byte) bool {
			var evt services.OrderPlacedEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				return false
			}
			return evt.OrderID == 3 && evt.CartID == cartID && evt.Items == 2 &&
				evt.Total.Equal(decimal.RequireFromString("24.98"))
		})).Return(nil).Once()

		before := testutil.ToFloat64(metrics.OrdersPlaced)
		order, err := svc.PlaceOrder(ctx, caller, cartID)
		require.NoError(t, err)
		assert.Equal(t, uint(3), order.ID)
		assert.Equal(t, models.PaymentPending, order.PaymentStatus)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersPlaced))

		orders.AssertExpectations(t)
		customers.AssertExpectations(t)
		mq.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		mq := new(MockRabbitMQClient)
		svc := services.NewOrderService(orders, customers, mq)
		cartID := uuid.NewString()

		customers.On("GetByUserID", mock.Anything, "user-1").Return(customer, nil).Once()
		orders.On("CreateFromCart", mock.Anything, uint(7), cartID).Return(&models.Order{ID: 4, CustomerID: 7}, nil).Once()
		mq.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

		order, err := svc.PlaceOrder(ctx, caller, cartID)
		require.NoError(t, err)
		assert.Equal(t, uint(4), order.ID)
		mq.AssertExpectations(t)
	})

	t.Run("works without a publisher", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		svc := services.NewOrderService(orders, customers, nil)
		cartID := uuid.NewString()

		customers.On("GetByUserID", mock.Anything, "user-1").Return(customer, nil).Once()
		orders.On("CreateFromCart", mock.Anything, uint(7), cartID).Return(&models.Order{ID: 5, CustomerID: 7}, nil).Once()

		_, err := svc.PlaceOrder(ctx, caller, cartID)
		assert.NoError(t, err)
	})

	t.Run("no customer record creates nothing", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		mq := new(MockRabbitMQClient)
		svc := services.NewOrderService(orders, customers, mq)

		customers.On("GetByUserID", mock.Anything, "user-1").
			Return(nil, fmt.Errorf("customer for user user-1: %w", services.ErrNotFound)).Once()

		_, err := svc.PlaceOrder(ctx, caller, uuid.NewString())
		assert.ErrorIs(t, err, services.ErrNotFound)
		orders.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything)
		mq.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		orders := new(MockOrderRepository)
		customers := new(MockCustomerRepository)
		mq := new(MockRabbitMQClient)
		svc := services.NewOrderService(orders, customers, mq)
		cartID := uuid.NewString()

		customers.On("GetByUserID", mock.Anything, "user-1").Return(customer, nil).Once()
		orders.On("CreateFromCart", mock.Anything, uint(7), cartID).
			Return(nil, fmt.Errorf("cart %s: %w", cartID, services.ErrEmptyCart)).Once()

		_, err := svc.PlaceOrder(ctx, caller, cartID)
		assert.ErrorIs(t, err, services.ErrEmptyCart)
		mq.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed cart id", func(t *testing.T) {
		svc := services.NewOrderService(new(MockOrderRepository), new(MockCustomerRepository), nil)
		_, err := svc.PlaceOrder(ctx, caller, "not-a-uuid")
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		svc := services.NewOrderService(new(MockOrderRepository), new(MockCustomerRepository), nil)
		_, err := svc.PlaceOrder(ctx, nil, uuid.NewString())
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})
}

func TestOrderService_Scoping(t *testing.T) {
	ctx := context.Background()
	staff := &policy.Identity{UserID: "admin", IsStaff: true}
	alice := &policy.Identity{UserID: "alice"}
	bob := &policy.Identity{UserID: "bob"}

	orders := new(MockOrderRepository)
	customers := new(MockCustomerRepository)
	svc := services.NewOrderService(orders, customers, nil)

	aliceCustomer := &models.Customer{ID: 1, UserID: "alice"}
	aliceOrder := &models.Order{ID: 10, CustomerID: 1, PaymentStatus: models.PaymentPending}

	customers.On("GetByUserID", mock.Anything, "alice").Return(aliceCustomer, nil)
	customers.On("GetByUserID", mock.Anything, "bob").Return(&models.Customer{ID: 2, UserID: "bob"}, nil)
	orders.On("GetByID", mock.Anything, uint(10)).Return(aliceOrder, nil)

	t.Run("staff list every order", func(t *testing.T) {
		orders.On("GetAll", mock.Anything, (*uint)(nil)).Return([]models.Order{*aliceOrder}, nil).Once()
		list, err := svc.ListOrders(ctx, staff)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("customer lists own orders", func(t *testing.T) {
		orders.On("GetAll", mock.Anything, mock.MatchedBy(func(id *uint) bool {
			return id != nil && *id == 1
		})).Return([]models.Order{*aliceOrder}, nil).Once()
		list, err := svc.ListOrders(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("caller without customer lists nothing", func(t *testing.T) {
		customers.On("GetByUserID", mock.Anything, "carol").
			Return(nil, fmt.Errorf("customer for user carol: %w", services.ErrNotFound)).Once()
		list, err := svc.ListOrders(ctx, &policy.Identity{UserID: "carol"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("owner and staff can read", func(t *testing.T) {
		order, err := svc.GetOrder(ctx, alice, 10)
		require.NoError(t, err)
		assert.Equal(t, uint(10), order.ID)

		_, err = svc.GetOrder(ctx, staff, 10)
		assert.NoError(t, err)
	})

	t.Run("other customers get not found", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, bob, 10)
		assert.ErrorIs(t, err, services.ErrNotFound)

		err = svc.DeleteOrder(ctx, bob, 10)
		assert.ErrorIs(t, err, services.ErrNotFound)
		orders.AssertNotCalled(t, "Delete", mock.Anything, uint(10))
	})
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	staff := &policy.Identity{UserID: "admin", IsStaff: true}

	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, new(MockCustomerRepository), nil)

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(ctx, staff, 1, "shipped")
		assert.ErrorIs(t, err, services.ErrInvalidInput)
		orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid status", func(t *testing.T) {
		orders.On("GetByID", mock.Anything, uint(1)).Return(&models.Order{ID: 1, PaymentStatus: models.PaymentPending}, nil).Once()
		orders.On("UpdateStatus", mock.Anything, uint(1), models.PaymentComplete).Return(nil).Once()

		order, err := svc.UpdatePaymentStatus(ctx, staff, 1, models.PaymentComplete)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentComplete, order.PaymentStatus)
		orders.AssertExpectations(t)
	})
}
