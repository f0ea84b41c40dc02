// Package server assembles the Fiber application: middleware, repositories,
// services and routes.
package server

import (
	"context"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/metrics"
	"storefront/pkg/storage"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the application is built from. Redis and
// Publisher are optional.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Disk      storage.Disk
	Redis     *redis.Client
	Publisher services.MessagePublisher
}

// New builds the Fiber app with every route mounted under /api/v1.
func New(d Deps) *fiber.App {
	bodyLimit := d.Config.MaxUploadKB*1024 + 1<<20
	if bodyLimit < fiber.DefaultBodyLimit {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:   "storefront",
		BodyLimit: bodyLimit,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{ContextKey: logger.RequestIDKey}))
	if !d.Config.IsProduction() {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:" + logger.RequestIDKey + "} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(metrics.Middleware())

	// --- Repositories ---
	var productRepo repositories.ProductRepository = repositories.NewGORMProductRepository(d.DB)
	if d.Redis != nil {
		productRepo = repositories.NewCachedProductRepository(productRepo, d.Redis, d.Config.ProductCacheTTL)
	}
	collectionRepo := repositories.NewGORMCollectionRepository(d.DB)
	imageRepo := repositories.NewGORMProductImageRepository(d.DB)
	reviewRepo := repositories.NewGORMProductReviewRepository(d.DB)
	customerRepo := repositories.NewGORMCustomerRepository(d.DB)
	addressRepo := repositories.NewGORMAddressRepository(d.DB)
	cartRepo := repositories.NewGORMCartRepository(d.DB)
	orderRepo := repositories.NewGORMOrderRepository(d.DB)

	// --- Services ---
	authService := services.NewAuthService(d.Config.JWTSecret)
	catalogService := services.NewCatalogService(collectionRepo, productRepo, imageRepo, reviewRepo, d.Disk, d.Config.MaxUploadKB)
	customerService := services.NewCustomerService(customerRepo, addressRepo)
	cartService := services.NewCartService(cartRepo)
	orderService := services.NewOrderService(orderRepo, customerRepo, d.Publisher)

	// --- Routes ---
	app.Get("/health", healthHandler(d))
	app.Get("/metrics", metrics.Handler())
	if local, ok := d.Disk.(*storage.LocalDisk); ok {
		app.Static("/media", local.Root())
	}

	apiV1 := app.Group("/api/v1", middleware.Authenticate(authService))
	handlers.NewCollectionHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewCustomerHandler(customerService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)

	return app
}

func healthHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		checks := fiber.Map{"database": "ok"}
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			status = fiber.StatusServiceUnavailable
		}
		if d.Redis != nil {
			checks["redis"] = "ok"
			if err := d.Redis.Ping(ctx).Err(); err != nil {
				// the cache is optional; report it without failing the check
				checks["redis"] = "unavailable"
			}
		}
		if d.Publisher != nil {
			checks["rabbitmq"] = "configured"
		}

		overall := "healthy"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status": overall,
			"time":   time.Now().Format(time.RFC3339),
			"checks": checks,
		})
	}
}
