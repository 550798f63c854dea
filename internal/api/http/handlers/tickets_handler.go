package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/service"
)

// TicketsHandler manages ticket endpoints, including responses to a ticket.
type TicketsHandler struct {
	tickets *service.TicketService
	reviews *service.ReviewService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, reviewService *service.ReviewService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, reviews: reviewService}
}

// CreateForm handles GET /tickets/create.
func (h *TicketsHandler) CreateForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.TicketForm})
}

// Create handles POST /tickets/create.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.TicketForm, err)
	}
	image, err := imageUpload(c)
	if err != nil {
		return rerender(c, dto.TicketForm, err)
	}
	if image != nil {
		defer image.Close()
	}

	created, err := h.tickets.CreateTicket(c.UserContext(), user, req.Form(), uploadReader(image))
	if err != nil {
		return rerender(c, dto.TicketForm, err)
	}
	return success(c, http.StatusCreated, dto.NewTicketResponse(created, user), RedirectFeed)
}

// EditForm handles GET /tickets/:id/edit.
func (h *TicketsHandler) EditForm(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetOwnedTicket(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket": dto.NewTicketResponse(ticket, user),
		"form":   dto.TicketUpdateForm,
	}})
}

// Edit handles POST /tickets/:id/edit.
func (h *TicketsHandler) Edit(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.TicketUpdateForm, err)
	}
	image, err := imageUpload(c)
	if err != nil {
		return rerender(c, dto.TicketUpdateForm, err)
	}
	if image != nil {
		defer image.Close()
	}

	change := service.ImageChange{Action: service.ImageKeep}
	switch {
	case image != nil:
		change = service.ImageChange{Action: service.ImageReplace, Upload: uploadReader(image)}
	case truthy(string(req.ImageClear)):
		change.Action = service.ImageClear
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), user, id, req.Form(), change)
	if err != nil {
		return rerender(c, dto.TicketUpdateForm, err)
	}
	return success(c, http.StatusOK, dto.NewTicketResponse(ticket, user), RedirectPosts)
}

// DeleteForm handles GET /tickets/:id/delete.
func (h *TicketsHandler) DeleteForm(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetOwnedTicket(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket": dto.NewTicketResponse(ticket, user)}})
}

// Delete handles POST /tickets/:id/delete.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), user, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil, RedirectPosts)
}

// RespondForm handles GET /tickets/:id/respond.
func (h *TicketsHandler) RespondForm(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := service.AssertNotAlreadyResponded(ticket); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket": dto.NewTicketResponse(ticket, user),
		"form":   dto.ReviewForm,
	}})
}

// Respond handles POST /tickets/:id/respond.
func (h *TicketsHandler) Respond(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "ticket")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.ReviewForm, err)
	}
	review, err := h.reviews.CreateResponse(c.UserContext(), user, id, req.Form())
	if err != nil {
		return rerender(c, dto.ReviewForm, err)
	}
	return success(c, http.StatusCreated, dto.NewReviewResponse(review, user), RedirectFeed)
}
