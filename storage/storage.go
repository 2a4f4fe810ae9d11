package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"hotel-booking/config"
)

// Storage is where uploaded room images and avatars end up.
type Storage interface {
	// Save writes the object under key.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key.
	URL(key string) string
}

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Driver)
	}
}

// KeyFromURL reverses URL for objects that belong to s.
func KeyFromURL(s Storage, url string) (string, bool) {
	prefix := s.URL("")
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
