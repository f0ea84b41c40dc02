package handlers

import (
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// placeOrderRequest is the body of POST /orders.
type placeOrderRequest struct {
	CartID string `json:"cart_id" validate:"required,uuid"`
}

// updateOrderRequest is the body of PATCH /orders/:id.
type updateOrderRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending complete failed"`
}

// orderResponse renders an order with its items.
type orderResponse struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

func newOrderResponse(o *models.Order) orderResponse {
	items := o.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return orderResponse{Order: *o, Items: items}
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.Authorize(policy.Orders)
	orders := router.Group("/orders")
	orders.Get("/", auth, h.HandleGetOrders)
	orders.Post("/", auth, h.HandleCreateOrder)
	orders.Get("/:id", auth, h.HandleGetOrderByID)
	orders.Patch("/:id", auth, h.HandleUpdateOrderStatus)
	orders.Delete("/:id", auth, h.HandleDeleteOrder)

	itemAuth := middleware.Authorize(policy.OrderItems)
	orders.Get("/:id/items", itemAuth, h.HandleGetOrderItems)
	orders.Get("/:id/items/:iid", itemAuth, h.HandleGetOrderItem)
}

// HandleGetOrders lists the orders visible to the caller.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err, "Could not retrieve orders")
	}
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	return c.JSON(out)
}

// HandleGetOrderByID retrieves a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Order not found")
	}
	order, err := h.service.GetOrder(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve order")
	}
	return c.JSON(newOrderResponse(order))
}

// HandleCreateOrder converts the given cart into an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req placeOrderRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.PlaceOrder(c.UserContext(), middleware.IdentityFrom(c), req.CartID)
	if err != nil {
		return writeError(c, err, "Could not create order")
	}

	logger.FromCtx(c).Info("order placed", "order_id", order.ID, "items", len(order.Items))
	return c.Status(fiber.StatusCreated).JSON(newOrderResponse(order))
}

// HandleUpdateOrderStatus updates the payment status of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Order not found")
	}
	var req updateOrderRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.UpdatePaymentStatus(c.UserContext(), middleware.IdentityFrom(c), id, req.PaymentStatus)
	if err != nil {
		return writeError(c, err, "Could not update order")
	}
	return c.JSON(newOrderResponse(order))
}

// HandleDeleteOrder deletes an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Order not found")
	}
	if err := h.service.DeleteOrder(c.UserContext(), middleware.IdentityFrom(c), id); err != nil {
		return writeError(c, err, "Could not delete order")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetOrderItems lists the items of an order.
func (h *OrderHandler) HandleGetOrderItems(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Order not found")
	}
	items, err := h.service.ListItems(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve order items")
	}
	return c.JSON(items)
}

// HandleGetOrderItem retrieves one item of an order.
func (h *OrderHandler) HandleGetOrderItem(c *fiber.Ctx) error {
	oid, iid, err := nestedParams(c, "iid")
	if err != nil {
		return writeError(c, err, "Order item not found")
	}
	item, err := h.service.GetItem(c.UserContext(), middleware.IdentityFrom(c), oid, iid)
	if err != nil {
		return writeError(c, err, "Could not retrieve order item")
	}
	return c.JSON(item)
}
