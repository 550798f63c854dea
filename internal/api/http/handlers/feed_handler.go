package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/service"
)

// FeedHandler serves the feed and "my posts" pages.
type FeedHandler struct {
	feed *service.FeedService
}

// NewFeedHandler constructs handler.
func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feedService}
}

// Feed handles GET /feed?page=N.
func (h *FeedHandler) Feed(c *fiber.Ctx) error {
	return h.render(c, domain.FeedScopeFeed)
}

// Posts handles GET /posts?page=N.
func (h *FeedHandler) Posts(c *fiber.Ctx) error {
	return h.render(c, domain.FeedScopePosts)
}

func (h *FeedHandler) render(c *fiber.Ctx, scope domain.FeedScope) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	page, err := h.feed.Page(c.UserContext(), scope, user, pageParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFeedPageResponse(page, user)})
}
