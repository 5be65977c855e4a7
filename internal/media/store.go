package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

// Store persists generated renders under a local directory that the
// server exposes at /static/uploads/.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, typically "uploads".
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes data under a content-hash filename and returns the URL
// path it will be served from. ext includes the dot, e.g. ".png".
func (s *Store) Save(data []byte, ext string) (models.MediaRef, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	sum := md5.Sum(data)
	filename := hex.EncodeToString(sum[:]) + ext
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return models.MediaRef("/static/uploads/" + filename), nil
}

// Dir returns the backing directory, for the static file handler.
func (s *Store) Dir() string {
	return s.dir
}
