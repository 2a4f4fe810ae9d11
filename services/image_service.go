package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"hotel-booking/logger"
	"hotel-booking/storage"
)

const (
	maxImageBytes = 10 << 20
	maxImageSide  = 1600
	jpegQuality   = 85
)

// ImageService normalizes uploaded pictures and puts them in storage.
type ImageService struct {
	Storage storage.Storage
}

func NewImageService(st storage.Storage) *ImageService {
	return &ImageService{Storage: st}
}

// SaveImage decodes r, fixes EXIF orientation, shrinks it to fit
// maxImageSide and stores it as JPEG under dir. It returns the public URL.
func (s *ImageService) SaveImage(ctx context.Context, r io.Reader, dir string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) {
		return "", newValidationMessage("image is not valid base64")
	}
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", newValidationMessage("image file is empty")
	}
	if len(data) > maxImageBytes {
		return "", newValidationMessage("image must be at most 10MB")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", newValidationMessage("file must be a JPEG, PNG or GIF image")
	}
	b := img.Bounds()
	if b.Dx() > maxImageSide || b.Dy() > maxImageSide {
		img = imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	key := path.Join(dir, fmt.Sprintf("%d-%s.jpg", time.Now().UnixNano(), uuid.NewString()[:8]))
	if err := s.Storage.Save(ctx, key, &buf, "image/jpeg"); err != nil {
		return "", err
	}
	return s.Storage.URL(key), nil
}

// Remove deletes a stored image by URL. URLs not owned by the storage are ignored.
func (s *ImageService) Remove(ctx context.Context, url string) {
	if s == nil || s.Storage == nil || url == "" {
		return
	}
	key, ok := storage.KeyFromURL(s.Storage, url)
	if !ok {
		return
	}
	if err := s.Storage.Delete(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to delete stored image")
	}
}
