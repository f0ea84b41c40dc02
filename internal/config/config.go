// Package config loads runtime settings from the environment, an optional
// .env file and an optional config.yaml.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	AppPort string
	AppEnv  string

	DBDriver    string
	DatabaseDSN string

	JWTSecret   string
	RabbitMQURL string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	StorageDisk      string
	StorageLocalRoot string
	StorageURL       string
	S3Bucket         string
	S3Region         string
	S3Key            string
	S3Secret         string
	S3Endpoint       string

	MaxUploadKB int
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRODUCT_CACHE_TTL", "5m")
	v.SetDefault("STORAGE_DISK", "local")
	v.SetDefault("STORAGE_LOCAL_ROOT", "storage")
	v.SetDefault("STORAGE_URL", "http://localhost:8080/media")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_KEY", "")
	v.SetDefault("S3_SECRET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("MAX_UPLOAD_KB", 2000)
}

// Load reads .env (if present) into the process environment, then resolves
// settings from environment variables and an optional config.yaml in the
// working directory. Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
	}
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		AppEnv:           v.GetString("APP_ENV"),
		DBDriver:         v.GetString("DB_DRIVER"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		ProductCacheTTL:  v.GetDuration("PRODUCT_CACHE_TTL"),
		StorageDisk:      v.GetString("STORAGE_DISK"),
		StorageLocalRoot: v.GetString("STORAGE_LOCAL_ROOT"),
		StorageURL:       v.GetString("STORAGE_URL"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Region:         v.GetString("S3_REGION"),
		S3Key:            v.GetString("S3_KEY"),
		S3Secret:         v.GetString("S3_SECRET"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		MaxUploadKB:      v.GetInt("MAX_UPLOAD_KB"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be empty")
	}
	if cfg.MaxUploadKB <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_KB must be positive, got %d", cfg.MaxUploadKB)
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
