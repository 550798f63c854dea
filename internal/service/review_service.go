package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// ReviewService coordinates review workflows.
type ReviewService struct {
	store  repository.Store
	images ImageStore
	events eventPublisher
	logger *zap.Logger
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	Store      repository.Store
	Images     ImageStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		store:  deps.Store,
		images: deps.Images,
		events: eventPublisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		logger: deps.Logger,
	}
}

// CreateReview publishes a ticket and its review in one transaction. Both forms are
// validated before anything is written, and their field errors are reported together.
func (s *ReviewService) CreateReview(ctx context.Context, owner *domain.User, ticketForm domain.TicketForm, reviewForm domain.ReviewForm, image io.Reader) (*domain.Ticket, *domain.Review, error) {
	ticketInput, errs := ticketForm.Validate()
	reviewInput, reviewErrs := reviewForm.Validate()
	for field, msg := range reviewErrs {
		errs.Add(field, msg)
	}
	if !errs.Empty() {
		return nil, nil, validationError("invalid review", errs)
	}

	var imageKey *string
	if image != nil && s.images != nil {
		key, err := s.images.Save(image)
		if err != nil {
			return nil, nil, err
		}
		imageKey = &key
	}

	ticket := &domain.Ticket{
		OwnerID:     owner.ID,
		OwnerName:   owner.Username,
		Title:       ticketInput.Title,
		Description: ticketInput.Description,
		Image:       imageKey,
	}
	review := &domain.Review{
		Rating:    reviewInput.Rating,
		Headline:  reviewInput.Headline,
		Body:      reviewInput.Body,
		OwnerID:   owner.ID,
		OwnerName: owner.Username,
	}

	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return err
		}
		review.TicketID = ticket.ID
		return repos.Reviews.Create(ctx, review)
	})
	if err != nil {
		removeImage(s.images, s.logger, imageKey)
		return nil, nil, err
	}
	ticket.Responded = true
	review.Ticket = ticket

	s.events.publish(ctx, events.NewEvent(events.EventTicketCreated, owner.ID, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		HasImage: ticket.Image != nil,
	}))
	s.events.publish(ctx, events.NewEvent(events.EventReviewCreated, owner.ID, events.ReviewPayload{
		ReviewID:   review.ID,
		TicketID:   ticket.ID,
		Rating:     review.Rating,
		Standalone: true,
	}))
	return ticket, review, nil
}

// CreateResponse answers an existing ticket. The unique index on the ticket is the
// final arbiter when two responses race.
func (s *ReviewService) CreateResponse(ctx context.Context, owner *domain.User, ticketID int64, form domain.ReviewForm) (*domain.Review, error) {
	ticket, err := s.store.Repos().Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	if err := AssertNotAlreadyResponded(ticket); err != nil {
		return nil, err
	}

	input, errs := form.Validate()
	if !errs.Empty() {
		return nil, validationError("invalid review", errs)
	}

	review := &domain.Review{
		TicketID:  ticket.ID,
		Rating:    input.Rating,
		Headline:  input.Headline,
		Body:      input.Body,
		OwnerID:   owner.ID,
		OwnerName: owner.Username,
	}
	if err := s.store.Repos().Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyResponded(ticket.ID)
		}
		return nil, notFound("ticket", ticketID, err)
	}
	ticket.Responded = true
	review.Ticket = ticket

	s.events.publish(ctx, events.NewEvent(events.EventReviewCreated, owner.ID, events.ReviewPayload{
		ReviewID: review.ID,
		TicketID: ticket.ID,
		Rating:   review.Rating,
	}))
	return review, nil
}

// GetReview loads any review with its ticket.
func (s *ReviewService) GetReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	review, err := s.store.Repos().Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFound("review", reviewID, err)
	}
	return review, nil
}

// GetOwnedReview loads a review the user may edit or delete.
func (s *ReviewService) GetOwnedReview(ctx context.Context, user *domain.User, reviewID int64) (*domain.Review, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(user, review, "review"); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edits the owner's review.
func (s *ReviewService) UpdateReview(ctx context.Context, user *domain.User, reviewID int64, form domain.ReviewForm) (*domain.Review, error) {
	review, err := s.GetOwnedReview(ctx, user, reviewID)
	if err != nil {
		return nil, err
	}

	input, errs := form.Validate()
	if !errs.Empty() {
		return nil, validationError("invalid review", errs)
	}

	review.Rating = input.Rating
	review.Headline = input.Headline
	review.Body = input.Body
	if err := s.store.Repos().Reviews.Update(ctx, review); err != nil {
		return nil, notFound("review", reviewID, err)
	}

	s.events.publish(ctx, events.NewEvent(events.EventReviewUpdated, user.ID, events.ReviewPayload{
		ReviewID: review.ID,
		TicketID: review.TicketID,
		Rating:   review.Rating,
	}))
	return review, nil
}

// DeleteReview removes the owner's review. The ticket stays and can be answered again.
func (s *ReviewService) DeleteReview(ctx context.Context, user *domain.User, reviewID int64) error {
	review, err := s.GetOwnedReview(ctx, user, reviewID)
	if err != nil {
		return err
	}
	if err := s.store.Repos().Reviews.Delete(ctx, reviewID); err != nil {
		return notFound("review", reviewID, err)
	}

	s.events.publish(ctx, events.NewEvent(events.EventReviewDeleted, user.ID, events.ReviewPayload{
		ReviewID: review.ID,
		TicketID: review.TicketID,
	}))
	return nil
}
