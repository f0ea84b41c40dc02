package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionInput carries collection fields to write. Nil fields are left unchanged.
type CollectionInput struct {
	Title    *string
	ImageURL *string
}

// ProductInput carries product fields to write. Nil fields are left unchanged.
type ProductInput struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	Inventory    *int
	Manufacturer *string
	CollectionID *uint
}

// ReviewInput carries review fields to write. Nil fields are left unchanged.
type ReviewInput struct {
	CustomerName *string
	Description  *string
}

// cacheInvalidator is implemented by product repositories that cache reads.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, id uint)
}

// CatalogService handles collections, products and the images and reviews
// attached to products.
type CatalogService struct {
	collections repositories.CollectionRepository
	products    repositories.ProductRepository
	images      repositories.ProductImageRepository
	reviews     repositories.ProductReviewRepository
	disk        storage.Disk
	maxUpload   int64 // bytes
}

// NewCatalogService creates a new CatalogService. maxUploadKB bounds the size
// of an uploaded product image.
func NewCatalogService(
	collections repositories.CollectionRepository,
	products repositories.ProductRepository,
	images repositories.ProductImageRepository,
	reviews repositories.ProductReviewRepository,
	disk storage.Disk,
	maxUploadKB int,
) *CatalogService {
	return &CatalogService{
		collections: collections,
		products:    products,
		images:      images,
		reviews:     reviews,
		disk:        disk,
		maxUpload:   int64(maxUploadKB) * 1024,
	}
}

// ListCollections retrieves all collections with their product counts.
func (s *CatalogService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return s.collections.GetAll(ctx)
}

// GetCollection retrieves a single collection.
func (s *CatalogService) GetCollection(ctx context.Context, id uint) (*models.Collection, error) {
	return s.collections.GetByID(ctx, id)
}

// CreateCollection creates a collection. A title is required.
func (s *CatalogService) CreateCollection(ctx context.Context, in CollectionInput) (*models.Collection, error) {
	collection := &models.Collection{}
	if err := applyCollection(collection, in); err != nil {
		return nil, err
	}
	if collection.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// UpdateCollection applies the non-nil fields of in to the collection.
func (s *CatalogService) UpdateCollection(ctx context.Context, id uint, in CollectionInput) (*models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCollection(collection, in); err != nil {
		return nil, err
	}
	if err := s.collections.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteCollection removes a collection that owns no products.
func (s *CatalogService) DeleteCollection(ctx context.Context, id uint) error {
	if _, err := s.collections.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.collections.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("collection %d includes %d products: %w", id, n, ErrHasDependents)
	}
	return s.collections.Delete(ctx, id)
}

func applyCollection(c *models.Collection, in CollectionInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return fmt.Errorf("title may not be blank: %w", ErrInvalidInput)
		}
		c.Title = title
	}
	if in.ImageURL != nil {
		c.ImageURL = *in.ImageURL
	}
	return nil
}

// ListProducts retrieves products matching filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.products.GetAll(ctx, filter)
}

// GetProduct retrieves a product with its images and reviews.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// CreateProduct creates a product. Title and price are required.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Title == nil || in.Price == nil {
		return nil, fmt.Errorf("title and price are required: %w", ErrInvalidInput)
	}
	product := &models.Product{}
	if err := s.applyProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	product.Images = []models.ProductImage{}
	product.Reviews = []models.ProductReview{}
	return product, nil
}

// UpdateProduct applies the non-nil fields of in to the product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product that no order item references, along with
// its images, reviews and cart lines. Stored image files are removed last.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	images, err := s.images.List(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range images {
		s.removeFile(ctx, img.Image)
	}
	return nil
}

// maxPrice is the first value a decimal(10,2) column cannot hold.
var maxPrice = decimal.NewFromInt(100_000_000)

// checkPrice accepts positive prices with at most two decimal places that fit
// the price columns.
func checkPrice(price decimal.Decimal) error {
	switch {
	case !price.IsPositive():
		return fmt.Errorf("price must be greater than zero: %w", ErrInvalidInput)
	case !price.Equal(price.Round(2)):
		return fmt.Errorf("price %s has more than 2 decimal places: %w", price, ErrInvalidInput)
	case price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("price %s must be less than %s: %w", price, maxPrice, ErrInvalidInput)
	}
	return nil
}

func (s *CatalogService) applyProduct(ctx context.Context, p *models.Product, in ProductInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return fmt.Errorf("title may not be blank: %w", ErrInvalidInput)
		}
		p.Title = title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return err
		}
		p.Price = *in.Price
	}
	if in.Inventory != nil {
		if *in.Inventory < 0 {
			return fmt.Errorf("inventory may not be negative: %w", ErrInvalidInput)
		}
		p.Inventory = *in.Inventory
	}
	if in.Manufacturer != nil {
		p.Manufacturer = *in.Manufacturer
	}
	if in.CollectionID != nil && *in.CollectionID == 0 {
		p.CollectionID = nil
	} else if in.CollectionID != nil {
		if _, err := s.collections.GetByID(ctx, *in.CollectionID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("collection %d does not exist: %w", *in.CollectionID, ErrInvalidInput)
			}
			return err
		}
		id := *in.CollectionID
		p.CollectionID = &id
	}
	return nil
}

// ListCollectionProducts lists the products of an existing collection.
func (s *CatalogService) ListCollectionProducts(ctx context.Context, collectionID uint) ([]models.Product, error) {
	if _, err := s.collections.GetByID(ctx, collectionID); err != nil {
		return nil, err
	}
	return s.products.GetAll(ctx, repositories.ProductFilter{CollectionID: &collectionID})
}

// GetCollectionProduct retrieves a product only if it belongs to the collection.
func (s *CatalogService) GetCollectionProduct(ctx context.Context, collectionID, productID uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CollectionID == nil || *product.CollectionID != collectionID {
		return nil, fmt.Errorf("product %d in collection %d: %w", productID, collectionID, ErrNotFound)
	}
	return product, nil
}

// CreateCollectionProduct creates a product inside the collection.
func (s *CatalogService) CreateCollectionProduct(ctx context.Context, collectionID uint, in ProductInput) (*models.Product, error) {
	if _, err := s.collections.GetByID(ctx, collectionID); err != nil {
		return nil, err
	}
	in.CollectionID = &collectionID
	return s.CreateProduct(ctx, in)
}

// UpdateCollectionProduct updates a product of the collection. The product
// stays in the collection.
func (s *CatalogService) UpdateCollectionProduct(ctx context.Context, collectionID, productID uint, in ProductInput) (*models.Product, error) {
	if _, err := s.GetCollectionProduct(ctx, collectionID, productID); err != nil {
		return nil, err
	}
	in.CollectionID = &collectionID
	return s.UpdateProduct(ctx, productID, in)
}

// DeleteCollectionProduct deletes a product of the collection.
func (s *CatalogService) DeleteCollectionProduct(ctx context.Context, collectionID, productID uint) error {
	if _, err := s.GetCollectionProduct(ctx, collectionID, productID); err != nil {
		return err
	}
	return s.DeleteProduct(ctx, productID)
}

// ListImages lists the images of an existing product.
func (s *CatalogService) ListImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.images.List(ctx, productID)
}

// GetImage retrieves one image of a product.
func (s *CatalogService) GetImage(ctx context.Context, productID, imageID uint) (*models.ProductImage, error) {
	return s.images.GetByID(ctx, productID, imageID)
}

// UploadImage stores content on the disk and attaches it to the product.
// Content larger than the upload limit or not recognised as an image is rejected.
func (s *CatalogService) UploadImage(ctx context.Context, productID uint, filename string, content []byte) (*models.ProductImage, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("image is required: %w", ErrInvalidInput)
	}
	if int64(len(content)) > s.maxUpload {
		return nil, fmt.Errorf("uploaded file cannot be larger than %dkb: %w", s.maxUpload/1024, ErrInvalidInput)
	}
	if !strings.HasPrefix(http.DetectContentType(content), "image/") {
		return nil, fmt.Errorf("uploaded file is not an image: %w", ErrInvalidInput)
	}

	path := fmt.Sprintf("products/%d/%s%s", productID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	if err := s.disk.Put(ctx, path, content); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	image := &models.ProductImage{ProductID: productID, Image: path, URL: s.disk.URL(path)}
	if err := s.images.Create(ctx, image); err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.invalidateProduct(ctx, productID)
	return image, nil
}

// DeleteImage detaches an image from the product and removes its file.
func (s *CatalogService) DeleteImage(ctx context.Context, productID, imageID uint) error {
	image, err := s.images.GetByID(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, productID, imageID); err != nil {
		return err
	}
	s.removeFile(ctx, image.Image)
	s.invalidateProduct(ctx, productID)
	return nil
}

// ListReviews lists the reviews of an existing product.
func (s *CatalogService) ListReviews(ctx context.Context, productID uint) ([]models.ProductReview, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.List(ctx, productID)
}

// GetReview retrieves one review of a product.
func (s *CatalogService) GetReview(ctx context.Context, productID, reviewID uint) (*models.ProductReview, error) {
	return s.reviews.GetByID(ctx, productID, reviewID)
}

// CreateReview adds a review to the product. Name and description are required.
func (s *CatalogService) CreateReview(ctx context.Context, productID uint, in ReviewInput) (*models.ProductReview, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if in.CustomerName == nil || in.Description == nil {
		return nil, fmt.Errorf("customer_name and description are required: %w", ErrInvalidInput)
	}
	review := &models.ProductReview{ProductID: productID}
	if err := applyReview(review, in); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, productID)
	return review, nil
}

// UpdateReview applies the non-nil fields of in to the review.
func (s *CatalogService) UpdateReview(ctx context.Context, productID, reviewID uint, in ReviewInput) (*models.ProductReview, error) {
	review, err := s.reviews.GetByID(ctx, productID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := applyReview(review, in); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, productID)
	return review, nil
}

// DeleteReview removes a review from the product.
func (s *CatalogService) DeleteReview(ctx context.Context, productID, reviewID uint) error {
	if err := s.reviews.Delete(ctx, productID, reviewID); err != nil {
		return err
	}
	s.invalidateProduct(ctx, productID)
	return nil
}

func applyReview(r *models.ProductReview, in ReviewInput) error {
	if in.CustomerName != nil {
		name := strings.TrimSpace(*in.CustomerName)
		if name == "" {
			return fmt.Errorf("customer_name may not be blank: %w", ErrInvalidInput)
		}
		r.CustomerName = name
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return fmt.Errorf("description may not be blank: %w", ErrInvalidInput)
		}
		r.Description = *in.Description
	}
	return nil
}

func (s *CatalogService) invalidateProduct(ctx context.Context, id uint) {
	if inv, ok := s.products.(cacheInvalidator); ok {
		inv.Invalidate(ctx, id)
	}
}

func (s *CatalogService) removeFile(ctx context.Context, path string) {
	if err := s.disk.Delete(ctx, path); err != nil {
		slog.Warn("failed to remove stored file", "path", path, "error", err)
	}
}
