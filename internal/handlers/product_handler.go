package handlers

import (
	"io"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/policy"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// productRequest is the body of POST and PUT.
type productRequest struct {
	Title        *string          `json:"title" validate:"required,min=1,max=255"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Inventory    *int             `json:"inventory" validate:"omitempty,min=0"`
	Manufacturer *string          `json:"manufacturer" validate:"omitempty,max=255"`
	CollectionID *uint            `json:"collection_id"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Inventory:    r.Inventory,
		Manufacturer: r.Manufacturer,
		CollectionID: r.CollectionID,
	}
}

// productPatch is the body of PATCH.
type productPatch struct {
	Title        *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Inventory    *int             `json:"inventory" validate:"omitempty,min=0"`
	Manufacturer *string          `json:"manufacturer" validate:"omitempty,max=255"`
	CollectionID *uint            `json:"collection_id"`
}

func parseProductBody(c *fiber.Ctx, validate *validator.Validate, partial bool) (services.ProductInput, bool, error) {
	if partial {
		var req productPatch
		if ok, err := parseBody(c, validate, &req); !ok {
			return services.ProductInput{}, false, err
		}
		return productRequest(req).input(), true, nil
	}
	var req productRequest
	if ok, err := parseBody(c, validate, &req); !ok {
		return services.ProductInput{}, false, err
	}
	return req.input(), true, nil
}

// reviewRequest is the body of POST and PUT on reviews.
type reviewRequest struct {
	CustomerName *string `json:"customer_name" validate:"required,min=1,max=255"`
	Description  *string `json:"description" validate:"required,min=1"`
}

// reviewPatch is the body of PATCH on reviews.
type reviewPatch struct {
	CustomerName *string `json:"customer_name" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description" validate:"omitempty,min=1"`
}

// ProductHandler handles HTTP requests for products, their images and reviews.
type ProductHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.Authorize(policy.Products)
	products := router.Group("/products")
	products.Get("/", auth, h.HandleGetProducts)
	products.Post("/", auth, h.HandleCreateProduct)
	products.Get("/:id", auth, h.HandleGetProduct)
	products.Put("/:id", auth, h.HandleUpdateProduct(false))
	products.Patch("/:id", auth, h.HandleUpdateProduct(true))
	products.Delete("/:id", auth, h.HandleDeleteProduct)

	imageAuth := middleware.Authorize(policy.ProductImages)
	products.Get("/:id/images", imageAuth, h.HandleGetImages)
	products.Post("/:id/images", imageAuth, h.HandleUploadImage)
	products.Get("/:id/images/:iid", imageAuth, h.HandleGetImage)
	products.Delete("/:id/images/:iid", imageAuth, h.HandleDeleteImage)

	reviewAuth := middleware.Authorize(policy.ProductReviews)
	products.Get("/:id/reviews", reviewAuth, h.HandleGetReviews)
	products.Post("/:id/reviews", reviewAuth, h.HandleCreateReview)
	products.Get("/:id/reviews/:rid", reviewAuth, h.HandleGetReview)
	products.Put("/:id/reviews/:rid", reviewAuth, h.HandleUpdateReview(false))
	products.Patch("/:id/reviews/:rid", reviewAuth, h.HandleUpdateReview(true))
	products.Delete("/:id/reviews/:rid", reviewAuth, h.HandleDeleteReview)
}

// HandleGetProducts lists products, optionally filtered by collection_id and
// a title search.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{Search: c.Query("search")}
	if raw := c.Query("collection_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return validationError(c, "collection_id", "Enter a whole number.")
		}
		cid := uint(id)
		filter.CollectionID = &cid
	}
	products, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a product with its images and reviews.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return writeError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a product; partial selects PATCH semantics.
func (h *ProductHandler) HandleUpdateProduct(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return writeError(c, err, "Product not found")
		}
		in, ok, err := parseProductBody(c, h.validate, partial)
		if !ok {
			return err
		}
		product, err := h.catalog.UpdateProduct(c.UserContext(), id, in)
		if err != nil {
			return writeError(c, err, "Could not update product")
		}
		return c.JSON(product)
	}
}

// HandleDeleteProduct deletes a product that no order references.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetImages lists the images of a product.
func (h *ProductHandler) HandleGetImages(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	images, err := h.catalog.ListImages(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve images")
	}
	return c.JSON(images)
}

// HandleGetImage retrieves one image of a product.
func (h *ProductHandler) HandleGetImage(c *fiber.Ctx) error {
	pid, iid, err := nestedParams(c, "iid")
	if err != nil {
		return writeError(c, err, "Image not found")
	}
	image, err := h.catalog.GetImage(c.UserContext(), pid, iid)
	if err != nil {
		return writeError(c, err, "Could not retrieve image")
	}
	return c.JSON(image)
}

// HandleUploadImage stores the multipart "image" file and attaches it to the product.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return validationError(c, "image", "No file was submitted.")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return writeError(c, err, "Could not read uploaded file")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, err, "Could not read uploaded file")
	}

	image, err := h.catalog.UploadImage(c.UserContext(), id, fileHeader.Filename, content)
	if err != nil {
		return writeError(c, err, "Could not upload image")
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleDeleteImage detaches and removes a product image.
func (h *ProductHandler) HandleDeleteImage(c *fiber.Ctx) error {
	pid, iid, err := nestedParams(c, "iid")
	if err != nil {
		return writeError(c, err, "Image not found")
	}
	if err := h.catalog.DeleteImage(c.UserContext(), pid, iid); err != nil {
		return writeError(c, err, "Could not delete image")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetReviews lists the reviews of a product.
func (h *ProductHandler) HandleGetReviews(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	reviews, err := h.catalog.ListReviews(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve reviews")
	}
	return c.JSON(reviews)
}

// HandleGetReview retrieves one review of a product.
func (h *ProductHandler) HandleGetReview(c *fiber.Ctx) error {
	pid, rid, err := nestedParams(c, "rid")
	if err != nil {
		return writeError(c, err, "Review not found")
	}
	review, err := h.catalog.GetReview(c.UserContext(), pid, rid)
	if err != nil {
		return writeError(c, err, "Could not retrieve review")
	}
	return c.JSON(review)
}

// HandleCreateReview adds a review to a product.
func (h *ProductHandler) HandleCreateReview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	var req reviewRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	review, err := h.catalog.CreateReview(c.UserContext(), id, services.ReviewInput{
		CustomerName: req.CustomerName,
		Description:  req.Description,
	})
	if err != nil {
		return writeError(c, err, "Could not create review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleUpdateReview updates a review; partial selects PATCH semantics.
func (h *ProductHandler) HandleUpdateReview(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pid, rid, err := nestedParams(c, "rid")
		if err != nil {
			return writeError(c, err, "Review not found")
		}
		var in services.ReviewInput
		if partial {
			var req reviewPatch
			if ok, err := parseBody(c, h.validate, &req); !ok {
				return err
			}
			in = services.ReviewInput{CustomerName: req.CustomerName, Description: req.Description}
		} else {
			var req reviewRequest
			if ok, err := parseBody(c, h.validate, &req); !ok {
				return err
			}
			in = services.ReviewInput{CustomerName: req.CustomerName, Description: req.Description}
		}
		review, err := h.catalog.UpdateReview(c.UserContext(), pid, rid, in)
		if err != nil {
			return writeError(c, err, "Could not update review")
		}
		return c.JSON(review)
	}
}

// HandleDeleteReview removes a review.
func (h *ProductHandler) HandleDeleteReview(c *fiber.Ctx) error {
	pid, rid, err := nestedParams(c, "rid")
	if err != nil {
		return writeError(c, err, "Review not found")
	}
	if err := h.catalog.DeleteReview(c.UserContext(), pid, rid); err != nil {
		return writeError(c, err, "Could not delete review")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// nestedParams reads the parent "id" and the child parameter named child.
func nestedParams(c *fiber.Ctx, child string) (uint, uint, error) {
	parent, err := idParam(c, "id")
	if err != nil {
		return 0, 0, err
	}
	id, err := idParam(c, child)
	if err != nil {
		return 0, 0, err
	}
	return parent, id, nil
}
