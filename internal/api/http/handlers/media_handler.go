package handlers

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/storage"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// MediaHandler serves stored ticket images.
type MediaHandler struct {
	images *storage.ImageStore
}

// NewMediaHandler constructs handler.
func NewMediaHandler(images *storage.ImageStore) *MediaHandler {
	return &MediaHandler{images: images}
}

// Serve handles GET /media/:key.
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	key := c.Params("key")
	path, err := h.images.Path(key)
	if err != nil {
		return apperrors.NewNotFound("image", map[string]any{"key": key})
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.NewNotFound("image", map[string]any{"key": key})
		}
		return err
	}
	c.Set(fiber.HeaderContentType, storage.ContentType(key))
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendFile(path)
}
