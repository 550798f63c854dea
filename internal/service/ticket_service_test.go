package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func TestTicketService_CreateWithImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	ticket, err := f.tickets.CreateTicket(context.Background(), alice,
		domain.TicketForm{Title: " Dune ", Description: "worth it?"}, strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "Dune", ticket.Title)
	require.NotNil(t, ticket.Image)
	assert.Contains(t, f.images.saved, *ticket.Image)
	assert.Equal(t, []events.EventType{events.EventTicketCreated}, f.recorder.seen())
}

func TestTicketService_CreateInvalid(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.tickets.CreateTicket(context.Background(), alice, domain.TicketForm{Title: ""}, strings.NewReader("png"))
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details, "title")
	assert.Empty(t, f.images.saved)
	assert.Zero(t, f.store.Counts().Tickets)
}

func TestTicketService_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ticket := f.ticket(t, alice, "Dune")

	_, err := f.tickets.UpdateTicket(ctx, bob, ticket.ID, domain.TicketForm{Title: "Hacked"}, ImageChange{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))
	stored, err := f.tickets.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", stored.Title)

	updated, err := f.tickets.UpdateTicket(ctx, alice, ticket.ID, domain.TicketForm{Title: "Dune Messiah"}, ImageChange{})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)

	_, err = f.tickets.UpdateTicket(ctx, alice, 999, domain.TicketForm{Title: "x"}, ImageChange{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestTicketService_UpdateImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	ticket, err := f.tickets.CreateTicket(ctx, alice, domain.TicketForm{Title: "Dune"}, strings.NewReader("v1"))
	require.NoError(t, err)
	first := *ticket.Image

	kept, err := f.tickets.UpdateTicket(ctx, alice, ticket.ID, domain.TicketForm{Title: "Dune"}, ImageChange{Action: ImageReplace})
	require.NoError(t, err)
	assert.Equal(t, first, *kept.Image)

	replaced, err := f.tickets.UpdateTicket(ctx, alice, ticket.ID, domain.TicketForm{Title: "Dune"},
		ImageChange{Action: ImageReplace, Upload: strings.NewReader("v2")})
	require.NoError(t, err)
	require.NotNil(t, replaced.Image)
	assert.NotEqual(t, first, *replaced.Image)
	assert.Contains(t, f.images.deleted, first)

	cleared, err := f.tickets.UpdateTicket(ctx, alice, ticket.ID, domain.TicketForm{Title: "Dune"}, ImageChange{Action: ImageClear})
	require.NoError(t, err)
	assert.Nil(t, cleared.Image)
	assert.Empty(t, f.images.saved)
}

func TestTicketService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ticket := f.ticket(t, alice, "Dune")
	review, err := f.reviews.CreateResponse(ctx, bob, ticket.ID, domain.ReviewForm{Rating: "4", Headline: "Yes"})
	require.NoError(t, err)

	err = f.tickets.DeleteTicket(ctx, bob, ticket.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, f.tickets.DeleteTicket(ctx, alice, ticket.ID))
	_, err = f.reviews.GetReview(ctx, review.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = f.tickets.GetTicket(ctx, ticket.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
