package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/models"
	"storefront/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const notFoundMarker = "notfound"

// CachedProductRepository is a read-through Redis cache in front of a
// ProductRepository. Only single-product lookups are cached; every write
// invalidates the affected key.
type CachedProductRepository struct {
	realRepo ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

// NewCachedProductRepository wraps realRepo. A zero ttl defaults to five minutes.
func NewCachedProductRepository(realRepo ProductRepository, rdb *redis.Client, ttl time.Duration) *CachedProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      ttl,
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *CachedProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	return c.realRepo.GetAll(ctx, filter)
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			metrics.CacheHits.WithLabelValues("product").Inc()
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			slog.Warn("failed to unmarshal cached product, falling back to database", "key", key, "error", err)
			break
		}
		metrics.CacheHits.WithLabelValues("product").Inc()
		return &product, nil
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("redis error, falling back to database", "key", key, "error", err)
	}
	metrics.CacheMisses.WithLabelValues("product").Inc()

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
				slog.Warn("failed to cache product miss", "key", key, "error", setErr)
			}
		}
		return nil, err
	}

	payload, err := json.Marshal(product)
	if err != nil {
		slog.Warn("failed to marshal product for cache", "key", key, "error", err)
		return product, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("failed to cache product", "key", key, "error", err)
	}
	return product, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	// Clears a "notfound" marker left for this id.
	c.invalidate(ctx, product.ID)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	err := c.realRepo.Update(ctx, product)
	c.invalidate(ctx, product.ID)
	return err
}

func (c *CachedProductRepository) Delete(ctx context.Context, id uint) error {
	err := c.realRepo.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

// Invalidate drops the cached entry for a product. Image and review writes
// change the embedded lists, so the catalog service calls this after them.
func (c *CachedProductRepository) Invalidate(ctx context.Context, id uint) {
	c.invalidate(ctx, id)
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id uint) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		slog.Warn("failed to delete product cache", "key", productKey(id), "error", err)
	}
}
