package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/service"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// Flash levels for the follows page.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FollowsHandler serves the follows page.
type FollowsHandler struct {
	follows *service.FollowService
}

// NewFollowsHandler constructs handler.
func NewFollowsHandler(followService *service.FollowService) *FollowsHandler {
	return &FollowsHandler{follows: followService}
}

// List handles GET /follows.
func (h *FollowsHandler) List(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, user, nil)
}

// Create handles POST /follows. Follow failures the user can fix are shown on the
// page instead of failing the request.
func (h *FollowsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.FollowRequest
	if err := bindForm(c, &req); err != nil {
		return h.fail(c, user, err)
	}

	follow, err := h.follows.CreateFollow(c.UserContext(), user, req.Username)
	if err != nil {
		return h.fail(c, user, err)
	}
	return h.render(c, http.StatusCreated, user, &dto.FlashMessage{
		Level: FlashSuccess,
		Text:  "you now follow " + follow.FollowedName,
	})
}

// DeleteForm handles GET /follows/:id/delete.
func (h *FollowsHandler) DeleteForm(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "follow")
	if err != nil {
		return err
	}
	follow, err := h.follows.GetOwnedFollow(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"follow": dto.FollowResponse{
		ID:        follow.ID,
		Username:  follow.FollowedName,
		CreatedAt: follow.CreatedAt,
	}}})
}

// Delete handles POST /follows/:id/delete.
func (h *FollowsHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "follow")
	if err != nil {
		return err
	}
	if err := h.follows.DeleteFollow(c.UserContext(), user, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil, RedirectFollows)
}

func (h *FollowsHandler) render(c *fiber.Ctx, status int, user *domain.User, message *dto.FlashMessage) error {
	lists, err := h.follows.ListFollows(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{
		"data": dto.NewFollowsPageResponse(lists.Following, lists.Followers, message),
	})
}

func (h *FollowsHandler) fail(c *fiber.Ctx, user *domain.User, err error) error {
	message, ok := followFlash(err)
	if !ok {
		return err
	}
	return h.render(c, http.StatusOK, user, message)
}

func followFlash(err error) (*dto.FlashMessage, bool) {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return nil, false
	}
	switch domainErr.Code {
	case apperrors.CodeUserNotFound, apperrors.CodeSelfFollow, apperrors.CodeDuplicateFollow, apperrors.CodeValidation:
		return &dto.FlashMessage{Level: FlashError, Code: domainErr.Code, Text: domainErr.Message}, true
	}
	return nil, false
}
