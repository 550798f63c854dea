package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/repository"
)

// ImageAction says what an update does with the current ticket image.
type ImageAction int

const (
	ImageKeep ImageAction = iota
	ImageReplace
	ImageClear
)

// ImageChange describes the image part of a ticket update. Upload is read only for
// ImageReplace.
type ImageChange struct {
	Action ImageAction
	Upload io.Reader
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	store  repository.Store
	images ImageStore
	events eventPublisher
	logger *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.Store
	Images     ImageStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:  deps.Store,
		images: deps.Images,
		events: eventPublisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		logger: deps.Logger,
	}
}

// CreateTicket validates the form, stores the optional image and inserts the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, owner *domain.User, form domain.TicketForm, image io.Reader) (*domain.Ticket, error) {
	input, errs := form.Validate()
	if !errs.Empty() {
		return nil, validationError("invalid ticket", errs)
	}

	imageKey, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		OwnerID:     owner.ID,
		OwnerName:   owner.Username,
		Title:       input.Title,
		Description: input.Description,
		Image:       imageKey,
	}
	if err := s.store.Repos().Tickets.Create(ctx, ticket); err != nil {
		removeImage(s.images, s.logger, imageKey)
		return nil, err
	}

	s.events.publish(ctx, events.NewEvent(events.EventTicketCreated, owner.ID, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		HasImage: ticket.Image != nil,
	}))
	return ticket, nil
}

// GetTicket loads any ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.store.Repos().Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	return ticket, nil
}

// GetOwnedTicket loads a ticket the user may edit or delete.
func (s *TicketService) GetOwnedTicket(ctx context.Context, user *domain.User, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(user, ticket, "ticket"); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateTicket edits the owner's ticket. The previous image file is removed once the
// row no longer references it.
func (s *TicketService) UpdateTicket(ctx context.Context, user *domain.User, ticketID int64, form domain.TicketForm, change ImageChange) (*domain.Ticket, error) {
	ticket, err := s.GetOwnedTicket(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}

	input, errs := form.Validate()
	if !errs.Empty() {
		return nil, validationError("invalid ticket", errs)
	}

	if change.Action == ImageReplace && change.Upload == nil {
		change.Action = ImageKeep
	}
	previous := ticket.Image
	var uploaded *string
	switch change.Action {
	case ImageReplace:
		uploaded, err = s.saveImage(change.Upload)
		if err != nil {
			return nil, err
		}
		ticket.Image = uploaded
	case ImageClear:
		ticket.Image = nil
	}

	ticket.Title = input.Title
	ticket.Description = input.Description
	if err := s.store.Repos().Tickets.Update(ctx, ticket); err != nil {
		removeImage(s.images, s.logger, uploaded)
		return nil, notFound("ticket", ticketID, err)
	}
	if change.Action != ImageKeep {
		removeImage(s.images, s.logger, previous)
	}

	s.events.publish(ctx, events.NewEvent(events.EventTicketUpdated, user.ID, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		HasImage: ticket.Image != nil,
	}))
	return ticket, nil
}

// DeleteTicket removes the owner's ticket together with its review.
func (s *TicketService) DeleteTicket(ctx context.Context, user *domain.User, ticketID int64) error {
	ticket, err := s.GetOwnedTicket(ctx, user, ticketID)
	if err != nil {
		return err
	}
	if err := s.store.Repos().Tickets.Delete(ctx, ticketID); err != nil {
		return notFound("ticket", ticketID, err)
	}
	removeImage(s.images, s.logger, ticket.Image)

	s.events.publish(ctx, events.NewEvent(events.EventTicketDeleted, user.ID, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
	}))
	return nil
}

func (s *TicketService) saveImage(image io.Reader) (*string, error) {
	if image == nil || s.images == nil {
		return nil, nil
	}
	key, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
