package handlers

import (
	"fmt"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

// customerRequest is the body of every customer write.
type customerRequest struct {
	UserID     *string `json:"user_id" validate:"omitempty,max=64"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	BirthDate  *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Membership *string `json:"membership" validate:"omitempty,oneof=bronze silver gold"`
}

func (r customerRequest) input() (services.CustomerInput, error) {
	in := services.CustomerInput{UserID: r.UserID, Phone: r.Phone, Membership: r.Membership}
	if r.BirthDate != nil && *r.BirthDate != "" {
		d, err := time.Parse(dateLayout, *r.BirthDate)
		if err != nil {
			return in, fmt.Errorf("birth_date: %w", services.ErrInvalidInput)
		}
		in.BirthDate = &d
	}
	return in, nil
}

// addressRequest is the body of POST and PUT on addresses.
type addressRequest struct {
	Street *string `json:"street" validate:"required,min=1,max=255"`
	City   *string `json:"city" validate:"required,min=1,max=255"`
}

// addressPatch is the body of PATCH on addresses.
type addressPatch struct {
	Street *string `json:"street" validate:"omitempty,min=1,max=255"`
	City   *string `json:"city" validate:"omitempty,min=1,max=255"`
}

// CustomerHandler handles HTTP requests for customers and their addresses.
type CustomerHandler struct {
	customers *services.CustomerService
	validate  *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		validate:  newValidator(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.Authorize(policy.Customers)
	customers := router.Group("/customers")
	customers.Get("/", auth, h.HandleGetCustomers)
	customers.Post("/", auth, h.HandleCreateCustomer)
	// "me" must be registered before "/:id".
	customers.Get("/me", auth, h.HandleGetMe)
	customers.Put("/me", auth, h.HandleSaveMe)
	customers.Get("/:id", auth, h.HandleGetCustomer)
	customers.Put("/:id", auth, h.HandleUpdateCustomer)
	customers.Patch("/:id", auth, h.HandleUpdateCustomer)
	customers.Delete("/:id", auth, h.HandleDeleteCustomer)

	addressAuth := middleware.Authorize(policy.Addresses)
	customers.Get("/:id/addresses", addressAuth, h.HandleGetAddresses)
	customers.Post("/:id/addresses", addressAuth, h.HandleCreateAddress)
	customers.Get("/:id/addresses/:aid", addressAuth, h.HandleGetAddress)
	customers.Put("/:id/addresses/:aid", addressAuth, h.HandleUpdateAddress(false))
	customers.Patch("/:id/addresses/:aid", addressAuth, h.HandleUpdateAddress(true))
	customers.Delete("/:id/addresses/:aid", addressAuth, h.HandleDeleteAddress)
}

func (h *CustomerHandler) parseCustomer(c *fiber.Ctx) (services.CustomerInput, bool, error) {
	var req customerRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return services.CustomerInput{}, false, err
	}
	in, err := req.input()
	if err != nil {
		return in, false, validationError(c, "birth_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	return in, true, nil
}

// HandleGetCustomers lists the customers visible to the caller.
func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	customers, err := h.customers.ListCustomers(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err, "Could not retrieve customers")
	}
	return c.JSON(customers)
}

// HandleCreateCustomer creates the caller's customer record.
func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	in, ok, err := h.parseCustomer(c)
	if !ok {
		return err
	}
	customer, err := h.customers.CreateCustomer(c.UserContext(), middleware.IdentityFrom(c), in)
	if err != nil {
		return writeError(c, err, "Could not create customer")
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// HandleGetMe returns the caller's customer record.
func (h *CustomerHandler) HandleGetMe(c *fiber.Ctx) error {
	customer, err := h.customers.Me(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err, "Could not retrieve customer")
	}
	return c.JSON(customer)
}

// HandleSaveMe creates or updates the caller's customer record.
func (h *CustomerHandler) HandleSaveMe(c *fiber.Ctx) error {
	in, ok, err := h.parseCustomer(c)
	if !ok {
		return err
	}
	customer, err := h.customers.SaveMe(c.UserContext(), middleware.IdentityFrom(c), in)
	if err != nil {
		return writeError(c, err, "Could not save customer")
	}
	return c.JSON(customer)
}

// HandleGetCustomer retrieves a customer visible to the caller.
func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Customer not found")
	}
	customer, err := h.customers.GetCustomer(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve customer")
	}
	return c.JSON(customer)
}

// HandleUpdateCustomer updates a customer visible to the caller.
func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Customer not found")
	}
	in, ok, err := h.parseCustomer(c)
	if !ok {
		return err
	}
	customer, err := h.customers.UpdateCustomer(c.UserContext(), middleware.IdentityFrom(c), id, in)
	if err != nil {
		return writeError(c, err, "Could not update customer")
	}
	return c.JSON(customer)
}

// HandleDeleteCustomer deletes a customer that has placed no orders.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Customer not found")
	}
	if err := h.customers.DeleteCustomer(c.UserContext(), middleware.IdentityFrom(c), id); err != nil {
		return writeError(c, err, "Could not delete customer")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetAddresses lists the addresses of a customer.
func (h *CustomerHandler) HandleGetAddresses(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Customer not found")
	}
	addresses, err := h.customers.ListAddresses(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve addresses")
	}
	return c.JSON(addresses)
}

// HandleGetAddress retrieves one address of a customer.
func (h *CustomerHandler) HandleGetAddress(c *fiber.Ctx) error {
	cid, aid, err := nestedParams(c, "aid")
	if err != nil {
		return writeError(c, err, "Address not found")
	}
	address, err := h.customers.GetAddress(c.UserContext(), middleware.IdentityFrom(c), cid, aid)
	if err != nil {
		return writeError(c, err, "Could not retrieve address")
	}
	return c.JSON(address)
}

// HandleCreateAddress adds an address to a customer.
func (h *CustomerHandler) HandleCreateAddress(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Customer not found")
	}
	var req addressRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	address, err := h.customers.CreateAddress(c.UserContext(), middleware.IdentityFrom(c), id, services.AddressInput{
		Street: req.Street,
		City:   req.City,
	})
	if err != nil {
		return writeError(c, err, "Could not create address")
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleUpdateAddress updates an address; partial selects PATCH semantics.
func (h *CustomerHandler) HandleUpdateAddress(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cid, aid, err := nestedParams(c, "aid")
		if err != nil {
			return writeError(c, err, "Address not found")
		}
		var in services.AddressInput
		if partial {
			var req addressPatch
			if ok, err := parseBody(c, h.validate, &req); !ok {
				return err
			}
			in = services.AddressInput{Street: req.Street, City: req.City}
		} else {
			var req addressRequest
			if ok, err := parseBody(c, h.validate, &req); !ok {
				return err
			}
			in = services.AddressInput{Street: req.Street, City: req.City}
		}
		address, err := h.customers.UpdateAddress(c.UserContext(), middleware.IdentityFrom(c), cid, aid, in)
		if err != nil {
			return writeError(c, err, "Could not update address")
		}
		return c.JSON(address)
	}
}

// HandleDeleteAddress removes an address of a customer.
func (h *CustomerHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	cid, aid, err := nestedParams(c, "aid")
	if err != nil {
		return writeError(c, err, "Address not found")
	}
	if err := h.customers.DeleteAddress(c.UserContext(), middleware.IdentityFrom(c), cid, aid); err != nil {
		return writeError(c, err, "Could not delete address")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
