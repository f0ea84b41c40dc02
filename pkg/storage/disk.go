// Package storage stores uploaded files on a pluggable disk.
//
// Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
package storage

import (
	"context"
	"fmt"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, replacing any existing file.
	Put(ctx context.Context, path string, content []byte) error
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool
	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}

// Config selects and configures a driver.
type Config struct {
	Driver    string // "local" or "s3"
	LocalRoot string
	BaseURL   string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
}

// New builds the disk named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.BaseURL), nil
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q (supported: local, s3)", cfg.Driver)
	}
}
