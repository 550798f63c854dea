package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/service"
)

// ReviewsHandler manages review endpoints.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviewService}
}

// CreateForm handles GET /reviews/create.
func (h *ReviewsHandler) CreateForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.StandaloneForm})
}

// Create handles POST /reviews/create: a ticket and its review in one submission.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.StandaloneReviewRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.StandaloneForm, err)
	}
	image, err := imageUpload(c)
	if err != nil {
		return rerender(c, dto.StandaloneForm, err)
	}
	if image != nil {
		defer image.Close()
	}

	_, review, err := h.reviews.CreateReview(c.UserContext(), user, req.TicketForm(), req.ReviewForm(), uploadReader(image))
	if err != nil {
		return rerender(c, dto.StandaloneForm, err)
	}
	return success(c, http.StatusCreated, dto.NewReviewResponse(review, user), RedirectFeed)
}

// EditForm handles GET /reviews/:id/edit.
func (h *ReviewsHandler) EditForm(c *fiber.Ctx) error {
	user, review, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"review": dto.NewReviewResponse(review, user),
		"form":   dto.ReviewForm,
	}})
}

// Edit handles POST /reviews/:id/edit.
func (h *ReviewsHandler) Edit(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "review")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.ReviewForm, err)
	}
	review, err := h.reviews.UpdateReview(c.UserContext(), user, id, req.Form())
	if err != nil {
		return rerender(c, dto.ReviewForm, err)
	}
	return success(c, http.StatusOK, dto.NewReviewResponse(review, user), RedirectPosts)
}

// DeleteForm handles GET /reviews/:id/delete.
func (h *ReviewsHandler) DeleteForm(c *fiber.Ctx) error {
	user, review, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"review": dto.NewReviewResponse(review, user)}})
}

// Delete handles POST /reviews/:id/delete. The reviewed ticket stays.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "review")
	if err != nil {
		return err
	}
	if err := h.reviews.DeleteReview(c.UserContext(), user, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil, RedirectPosts)
}

func (h *ReviewsHandler) owned(c *fiber.Ctx) (*domain.User, *domain.Review, error) {
	user, err := requireUser(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := pathID(c, "review")
	if err != nil {
		return nil, nil, err
	}
	review, err := h.reviews.GetOwnedReview(c.UserContext(), user, id)
	if err != nil {
		return nil, nil, err
	}
	return user, review, nil
}

