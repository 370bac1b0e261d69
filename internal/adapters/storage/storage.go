// Package storage keeps uploaded images in MinIO or on the local disk
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"clubportal/internal/config"
)

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore stores objects under a key and returns their public URL
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Name() string
}

// New builds the store selected by STORAGE_DRIVER
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "minio":
		store, err := NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "local", "":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
