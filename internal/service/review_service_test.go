package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func TestReviewService_CreateStandalone(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	ticket, review, err := f.reviews.CreateReview(context.Background(), alice,
		domain.TicketForm{Title: "Dune"}, domain.ReviewForm{Rating: "5", Headline: "Classic"}, strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, review.TicketID)
	assert.True(t, ticket.Responded)
	assert.Equal(t, alice.ID, ticket.OwnerID)
	assert.Equal(t, alice.ID, review.OwnerID)
	assert.Equal(t, []events.EventType{events.EventTicketCreated, events.EventReviewCreated}, f.recorder.seen())
}

func TestReviewService_CreateStandaloneReportsAllFields(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, _, err := f.reviews.CreateReview(context.Background(), alice,
		domain.TicketForm{}, domain.ReviewForm{Rating: "6"}, nil)
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "rating")
	assert.Contains(t, details, "headline")
	assert.Zero(t, f.store.Counts().Tickets)
}

func TestReviewService_CreateStandaloneRollsBack(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.store.FailReviewCreate(errInjected)

	_, _, err := f.reviews.CreateReview(context.Background(), alice,
		domain.TicketForm{Title: "Dune"}, domain.ReviewForm{Rating: "3", Headline: "ok"}, strings.NewReader("png"))
	assert.ErrorIs(t, err, errInjected)
	assert.Zero(t, f.store.Counts().Tickets)
	assert.Empty(t, f.images.saved)
	assert.Empty(t, f.recorder.seen())
}

func TestReviewService_RatingOutOfRangeStoresNothing(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ticket := f.ticket(t, alice, "Dune")

	_, err := f.reviews.CreateResponse(context.Background(), bob, ticket.ID, domain.ReviewForm{Rating: "6", Headline: "h"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Zero(t, f.store.Counts().Reviews)
}

func TestReviewService_SecondResponseRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	ticket := f.ticket(t, alice, "Dune")

	_, err := f.reviews.CreateResponse(ctx, bob, ticket.ID, domain.ReviewForm{Rating: "4", Headline: "yes"})
	require.NoError(t, err)

	_, err = f.reviews.CreateResponse(ctx, carol, ticket.ID, domain.ReviewForm{Rating: "2", Headline: "no"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyResponded))
	assert.Equal(t, 1, f.store.Counts().Reviews)

	_, err = f.reviews.CreateResponse(ctx, carol, 999, domain.ReviewForm{Rating: "2", Headline: "no"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestReviewService_UniqueViolationMapsToAlreadyResponded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	ticket := f.ticket(t, alice, "Dune")

	f.store.AfterTicketGet(func() {
		f.store.AfterTicketGet(nil)
		_, err := f.reviews.CreateResponse(ctx, carol, ticket.ID, domain.ReviewForm{Rating: "1", Headline: "first"})
		require.NoError(t, err)
	})

	_, err := f.reviews.CreateResponse(ctx, bob, ticket.ID, domain.ReviewForm{Rating: "4", Headline: "second"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyResponded))
	assert.Equal(t, 1, f.store.Counts().Reviews)
}

func TestReviewService_ConcurrentResponsesStoreOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	ticket := f.ticket(t, alice, "Dune")

	responders := make([]*domain.User, 8)
	for i := range responders {
		responders[i] = f.user(t, "reader"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(responders))
	for i, u := range responders {
		wg.Add(1)
		go func(i int, u *domain.User) {
			defer wg.Done()
			_, errs[i] = f.reviews.CreateResponse(ctx, u, ticket.ID, domain.ReviewForm{Rating: "3", Headline: "race"})
		}(i, u)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyResponded), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.store.Counts().Reviews)
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ticket := f.ticket(t, alice, "Dune")
	review, err := f.reviews.CreateResponse(ctx, bob, ticket.ID, domain.ReviewForm{Rating: "4", Headline: "yes"})
	require.NoError(t, err)

	_, err = f.reviews.UpdateReview(ctx, alice, review.ID, domain.ReviewForm{Rating: "0", Headline: "mine now"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	updated, err := f.reviews.UpdateReview(ctx, bob, review.ID, domain.ReviewForm{Rating: "0", Headline: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Rating)

	_, err = f.reviews.UpdateReview(ctx, bob, review.ID, domain.ReviewForm{Rating: "9", Headline: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	assert.True(t, apperrors.HasCode(f.reviews.DeleteReview(ctx, alice, review.ID), apperrors.CodePermissionDenied))
	require.NoError(t, f.reviews.DeleteReview(ctx, bob, review.ID))

	reopened, err := f.tickets.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Responded)

	_, err = f.reviews.CreateResponse(ctx, bob, ticket.ID, domain.ReviewForm{Rating: "5", Headline: "again"})
	assert.NoError(t, err)
}
