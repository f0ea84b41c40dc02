package handlers

import (
	"time"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// addCartItemRequest is the body of POST /carts/:id/items.
type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// updateCartItemRequest is the body of PATCH /carts/:id/items/:iid.
type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type simpleProduct struct {
	ID    uint            `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type cartItemResponse struct {
	ID         uint            `json:"id"`
	Product    simpleProduct   `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type cartResponse struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []cartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"cart_total_price"`
}

func newCartItemResponse(item models.CartItem) cartItemResponse {
	return cartItemResponse{
		ID: item.ID,
		Product: simpleProduct{
			ID:    item.Product.ID,
			Title: item.Product.Title,
			Price: item.Product.Price,
		},
		Quantity:   item.Quantity,
		TotalPrice: item.TotalPrice(),
	}
}

// CartHandler handles HTTP requests for anonymous carts.
type CartHandler struct {
	carts    *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.Authorize(policy.Carts)
	carts := router.Group("/carts")
	carts.Post("/", auth, h.HandleCreateCart)
	carts.Get("/:id", auth, h.HandleGetCart)
	carts.Delete("/:id", auth, h.HandleDeleteCart)

	itemAuth := middleware.Authorize(policy.CartItems)
	carts.Get("/:id/items", itemAuth, h.HandleGetItems)
	carts.Post("/:id/items", itemAuth, h.HandleAddItem)
	carts.Get("/:id/items/:iid", itemAuth, h.HandleGetItem)
	carts.Patch("/:id/items/:iid", itemAuth, h.HandleUpdateItem)
	carts.Delete("/:id/items/:iid", itemAuth, h.HandleDeleteItem)
}

func (h *CartHandler) render(cart *models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, newCartItemResponse(item))
	}
	return cartResponse{
		ID:         cart.ID,
		CreatedAt:  cart.CreatedAt,
		Items:      items,
		TotalPrice: h.carts.Total(cart),
	}
}

// HandleCreateCart creates an empty cart.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	cart, err := h.carts.CreateCart(c.UserContext())
	if err != nil {
		return writeError(c, err, "Could not create cart")
	}
	return c.Status(fiber.StatusCreated).JSON(h.render(cart))
}

// HandleGetCart retrieves a cart with its items and total price.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.carts.GetCart(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "Could not retrieve cart")
	}
	return c.JSON(h.render(cart))
}

// HandleDeleteCart deletes a cart and its items.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	if err := h.carts.DeleteCart(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err, "Could not delete cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetItems lists the items of a cart.
func (h *CartHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.carts.ListItems(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "Could not retrieve cart items")
	}
	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newCartItemResponse(item))
	}
	return c.JSON(out)
}

// HandleGetItem retrieves one item of a cart.
func (h *CartHandler) HandleGetItem(c *fiber.Ctx) error {
	iid, err := idParam(c, "iid")
	if err != nil {
		return writeError(c, err, "Cart item not found")
	}
	item, err := h.carts.GetItem(c.UserContext(), c.Params("id"), iid)
	if err != nil {
		return writeError(c, err, "Could not retrieve cart item")
	}
	return c.JSON(newCartItemResponse(*item))
}

// HandleAddItem adds a product to a cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addCartItemRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.carts.AddItem(c.UserContext(), c.Params("id"), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(newCartItemResponse(*item))
}

// HandleUpdateItem replaces the quantity of a cart item.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	iid, err := idParam(c, "iid")
	if err != nil {
		return writeError(c, err, "Cart item not found")
	}
	var req updateCartItemRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.carts.UpdateItemQuantity(c.UserContext(), c.Params("id"), iid, req.Quantity)
	if err != nil {
		return writeError(c, err, "Could not update cart item")
	}
	return c.JSON(newCartItemResponse(*item))
}

// HandleDeleteItem removes an item from a cart.
func (h *CartHandler) HandleDeleteItem(c *fiber.Ctx) error {
	iid, err := idParam(c, "iid")
	if err != nil {
		return writeError(c, err, "Cart item not found")
	}
	if err := h.carts.RemoveItem(c.UserContext(), c.Params("id"), iid); err != nil {
		return writeError(c, err, "Could not delete cart item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
