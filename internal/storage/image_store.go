package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	apperrors "github.com/spec-kit/litreview/pkg/util"
)

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var keyPattern = regexp.MustCompile(`^[0-9a-f-]{36}\.(jpg|png|gif|webp)$`)

// ErrInvalidKey is returned for keys this store could not have produced.
var ErrInvalidKey = errors.New("invalid image key")

// ImageStore keeps ticket cover images in a local directory.
type ImageStore struct {
	dir     string
	maxSize int64
}

// NewImageStore creates dir if needed.
func NewImageStore(dir string, maxSize int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir, maxSize: maxSize}, nil
}

// Save validates r as a supported image and stores it, returning its key. The format
// is taken from the decoded header; the client's content type is never trusted.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", imageError(fmt.Sprintf("image must be at most %d bytes", s.maxSize))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", imageError("upload a valid image (JPEG, PNG, GIF or WebP)")
	}
	ext, ok := extensions[format]
	if !ok {
		return "", imageError("upload a valid image (JPEG, PNG, GIF or WebP)")
	}

	key := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return key, nil
}

// Delete removes the image; a missing file is not an error.
func (s *ImageStore) Delete(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves key to its file on disk.
func (s *ImageStore) Path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// ContentType returns the MIME type for key.
func ContentType(key string) string {
	if ct, ok := contentTypes[filepath.Ext(key)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func imageError(msg string) error {
	return apperrors.NewValidationError("invalid image", map[string]any{"image": msg})
}
