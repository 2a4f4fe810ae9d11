package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveImageResizesAndStores(t *testing.T) {
	dir := t.TempDir()
	st, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewImageService(st)
	ctx := context.Background()

	url, err := svc.SaveImage(ctx, bytes.NewReader(pngBytes(t, 3200, 800)), "rooms/1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/rooms/1/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	key, ok := storage.KeyFromURL(st, url)
	require.True(t, ok)
	stored, err := imaging.Open(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, 1600, stored.Bounds().Dx())
	assert.Equal(t, 400, stored.Bounds().Dy())

	svc.Remove(ctx, url)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	st, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewImageService(st)

	_, err = svc.SaveImage(context.Background(), strings.NewReader("definitely not a picture"), "avatars/1")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"file must be a JPEG, PNG or GIF image"}, verr.Messages)

	_, err = svc.SaveImage(context.Background(), strings.NewReader(""), "avatars/1")
	assert.True(t, errors.As(err, &verr))

	// foreign URLs and a nil service are ignored
	svc.Remove(context.Background(), "https://elsewhere.example.com/a.jpg")
	var none *ImageService
	none.Remove(context.Background(), "http://localhost:8080/uploads/a.jpg")
}
