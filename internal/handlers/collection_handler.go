package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/policy"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// collectionRequest is the body of POST and PUT.
type collectionRequest struct {
	Title    *string `json:"title" validate:"required,min=1,max=255"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=512"`
}

// collectionPatch is the body of PATCH.
type collectionPatch struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=512"`
}

// CollectionHandler handles HTTP requests for collections and the products
// nested under them.
type CollectionHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(catalog *services.CatalogService) *CollectionHandler {
	return &CollectionHandler{
		catalog:  catalog,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the collection routes with the Fiber app.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.Authorize(policy.Collections)
	collections := router.Group("/collections")
	collections.Get("/", auth, h.HandleGetCollections)
	collections.Post("/", auth, h.HandleCreateCollection)
	collections.Get("/:id", auth, h.HandleGetCollection)
	collections.Put("/:id", auth, h.HandleUpdateCollection)
	collections.Patch("/:id", auth, h.HandlePatchCollection)
	collections.Delete("/:id", auth, h.HandleDeleteCollection)

	productAuth := middleware.Authorize(policy.Products)
	collections.Get("/:id/products", productAuth, h.HandleGetCollectionProducts)
	collections.Post("/:id/products", productAuth, h.HandleCreateCollectionProduct)
	collections.Get("/:id/products/:pid", productAuth, h.HandleGetCollectionProduct)
	collections.Put("/:id/products/:pid", productAuth, h.HandleUpdateCollectionProduct(false))
	collections.Patch("/:id/products/:pid", productAuth, h.HandleUpdateCollectionProduct(true))
	collections.Delete("/:id/products/:pid", productAuth, h.HandleDeleteCollectionProduct)
}

// HandleGetCollections lists collections with their product counts.
func (h *CollectionHandler) HandleGetCollections(c *fiber.Ctx) error {
	collections, err := h.catalog.ListCollections(c.UserContext())
	if err != nil {
		return writeError(c, err, "Could not retrieve collections")
	}
	return c.JSON(collections)
}

// HandleGetCollection retrieves a single collection.
func (h *CollectionHandler) HandleGetCollection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Collection not found")
	}
	collection, err := h.catalog.GetCollection(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve collection")
	}
	return c.JSON(collection)
}

// HandleCreateCollection creates a collection.
func (h *CollectionHandler) HandleCreateCollection(c *fiber.Ctx) error {
	var req collectionRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	collection, err := h.catalog.CreateCollection(c.UserContext(), services.CollectionInput{
		Title:    req.Title,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return writeError(c, err, "Could not create collection")
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// HandleUpdateCollection replaces a collection.
func (h *CollectionHandler) HandleUpdateCollection(c *fiber.Ctx) error {
	var req collectionRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	return h.update(c, services.CollectionInput{Title: req.Title, ImageURL: req.ImageURL})
}

// HandlePatchCollection updates the given fields of a collection.
func (h *CollectionHandler) HandlePatchCollection(c *fiber.Ctx) error {
	var req collectionPatch
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	return h.update(c, services.CollectionInput{Title: req.Title, ImageURL: req.ImageURL})
}

func (h *CollectionHandler) update(c *fiber.Ctx, in services.CollectionInput) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Collection not found")
	}
	collection, err := h.catalog.UpdateCollection(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err, "Could not update collection")
	}
	return c.JSON(collection)
}

// HandleDeleteCollection deletes a collection that owns no products.
func (h *CollectionHandler) HandleDeleteCollection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Collection not found")
	}
	if err := h.catalog.DeleteCollection(c.UserContext(), id); err != nil {
		return writeError(c, err, "Could not delete collection")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetCollectionProducts lists the products of a collection.
func (h *CollectionHandler) HandleGetCollectionProducts(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Collection not found")
	}
	products, err := h.catalog.ListCollectionProducts(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetCollectionProduct retrieves a product of a collection.
func (h *CollectionHandler) HandleGetCollectionProduct(c *fiber.Ctx) error {
	cid, pid, err := nestedParams(c, "pid")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	product, err := h.catalog.GetCollectionProduct(c.UserContext(), cid, pid)
	if err != nil {
		return writeError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateCollectionProduct creates a product inside a collection.
func (h *CollectionHandler) HandleCreateCollectionProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err, "Collection not found")
	}
	var req productRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	product, err := h.catalog.CreateCollectionProduct(c.UserContext(), id, req.input())
	if err != nil {
		return writeError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateCollectionProduct updates a product of a collection; partial
// selects PATCH semantics.
func (h *CollectionHandler) HandleUpdateCollectionProduct(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cid, pid, err := nestedParams(c, "pid")
		if err != nil {
			return writeError(c, err, "Product not found")
		}
		in, ok, err := parseProductBody(c, h.validate, partial)
		if !ok {
			return err
		}
		product, err := h.catalog.UpdateCollectionProduct(c.UserContext(), cid, pid, in)
		if err != nil {
			return writeError(c, err, "Could not update product")
		}
		return c.JSON(product)
	}
}

// HandleDeleteCollectionProduct deletes a product of a collection.
func (h *CollectionHandler) HandleDeleteCollectionProduct(c *fiber.Ctx) error {
	cid, pid, err := nestedParams(c, "pid")
	if err != nil {
		return writeError(c, err, "Product not found")
	}
	if err := h.catalog.DeleteCollectionProduct(c.UserContext(), cid, pid); err != nil {
		return writeError(c, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
