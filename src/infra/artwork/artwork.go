package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/contre95/shadowbox/src/features/config"
	"github.com/contre95/shadowbox/src/infra/httpx"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// maxImageBytes caps downloads, covers are rarely above a few MB.
const maxImageBytes = 20 << 20

// Service downloads cover art and prepares it for embedding.
type Service struct {
	client  *http.Client
	size    int
	quality int
}

// NewService creates a new artwork service. size 0 keeps the original
// dimensions.
func NewService(cfg config.EmbeddedArtwork, client *http.Client) *Service {
	if client == nil {
		client = httpx.NewClient()
	}
	quality := cfg.Quality
	if quality <= 0 {
		quality = 85
	}
	return &Service{client: client, size: cfg.Size, quality: quality}
}

// Fetch downloads the image at url and returns it as JPEG, scaled down to
// the configured size. Images that cannot be decoded are returned as is.
func (s *Service) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty artwork URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := httpx.Do(s.client, req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("artwork download returned no data")
	}

	prepared, err := s.prepare(data)
	if err != nil {
		slog.Warn("Could not re-encode artwork, embedding original", "url", url, "error", err)
		return data, nil
	}
	slog.Debug("Artwork downloaded", "url", url, "bytes", len(prepared))
	return prepared, nil
}

// DownloadImage fetches url and writes the prepared image to dest.
func (s *Service) DownloadImage(ctx context.Context, url, dest string) error {
	data, err := s.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write artwork file: %w", err)
	}
	return nil
}

// prepare decodes the image, shrinks it to fit size x size and encodes JPEG.
func (s *Service) prepare(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if s.size > 0 && (bounds.Dx() > s.size || bounds.Dy() > s.size) {
		img = resize.Thumbnail(uint(s.size), uint(s.size), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MimeType sniffs the image type of data.
func MimeType(data []byte) string {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
