package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/contre95/shadowbox/src/features/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch_ResizesToJPEG(t *testing.T) {
	src := pngBytes(t, 1200, 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(src)
	}))
	defer srv.Close()

	s := NewService(config.EmbeddedArtwork{Enabled: true, Size: 300, Quality: 80}, srv.Client())
	data, err := s.Fetch(context.Background(), srv.URL+"/cover.png")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", MimeType(data))
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestDownloadImage_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 10, 10))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "art", "cover.jpg")
	s := NewService(config.EmbeddedArtwork{Size: 1000}, srv.Client())
	require.NoError(t, s.DownloadImage(context.Background(), srv.URL, dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewService(config.EmbeddedArtwork{}, srv.Client())
	_, err := s.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	_, err = s.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "image/png", MimeType(pngBytes(t, 1, 1)))
	assert.Equal(t, "image/webp", MimeType([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "image/jpeg", MimeType([]byte{0xFF, 0xD8, 0xFF}))
}
