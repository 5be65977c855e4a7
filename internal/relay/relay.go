// Package relay fetches image bytes on behalf of the browser, which
// cannot read cross-origin product images itself.
package relay

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

// 20MB cap keeps a hostile URL from exhausting memory.
const maxImageBytes = 20 * 1024 * 1024

// Fetcher retrieves remote images over plain HTTP.
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a fetcher with a sane timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the image at url and returns its bytes with the
// declared media type (image/jpeg when the server declares none).
func (f *Fetcher) Fetch(url string) (models.ImageData, error) {
	resp, err := f.HTTPClient.Get(url)
	if err != nil {
		return models.ImageData{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ImageData{}, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return models.ImageData{}, fmt.Errorf("failed to read image data: %w", err)
	}

	return models.ImageData{Data: data, MimeType: mimeType}, nil
}
