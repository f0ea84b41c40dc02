package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/policy"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront REST API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newTokenCmd())
	return root
}

// bootstrap loads configuration, installs the logger and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(cfg.IsProduction())

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	deps := server.Deps{Config: cfg, DB: db}

	// --- Storage ---
	disk, err := storage.New(ctx, storage.Config{
		Driver:     cfg.StorageDisk,
		LocalRoot:  cfg.StorageLocalRoot,
		BaseURL:    cfg.StorageURL,
		S3Bucket:   cfg.S3Bucket,
		S3Region:   cfg.S3Region,
		S3Key:      cfg.S3Key,
		S3Secret:   cfg.S3Secret,
		S3Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return err
	}
	deps.Disk = disk

	// --- Redis (optional) ---
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, product cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			deps.Redis = rdb
		}
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			slog.Warn("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			defer mqClient.Close()
			deps.Publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				slog.Error("failed to start order event consumer", "error", err)
			}
		}
	}

	app := server.New(deps)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.AppPort, "env", cfg.AppEnv)
		errCh <- app.Listen(cfg.AppPort)
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("error during fiber shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("server gracefully stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			slog.Info("database migrated")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty catalog with sample collections and products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			return seedCatalog(cmd.Context(), db)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		username string
		staff    bool
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if username == "" {
				username = args[0]
			}
			token, err := services.NewAuthService(cfg.JWTSecret).IssueToken(policy.Identity{
				UserID:   args[0],
				Username: username,
				IsStaff:  staff,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username claim (defaults to the user id)")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant admin rights")
	return cmd
}
