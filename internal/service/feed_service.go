package service

import (
	"context"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/repository"
)

// FeedService assembles the paginated feed and "my posts" listings.
type FeedService struct {
	store repository.Store
}

// NewFeedService constructs the service.
func NewFeedService(store repository.Store) *FeedService {
	return &FeedService{store: store}
}

// Feed returns the viewer's own posts, posts by followed users and responses to the
// viewer's tickets.
func (s *FeedService) Feed(ctx context.Context, viewer *domain.User, page int) (*domain.FeedPage, error) {
	return s.Page(ctx, domain.FeedScopeFeed, viewer, page)
}

// Posts returns only the viewer's own posts.
func (s *FeedService) Posts(ctx context.Context, viewer *domain.User, page int) (*domain.FeedPage, error) {
	return s.Page(ctx, domain.FeedScopePosts, viewer, page)
}

// Page counts both streams to clamp the requested page, then merges the top
// page*size rows of each stream. Those rows always contain the requested page.
func (s *FeedService) Page(ctx context.Context, scope domain.FeedScope, viewer *domain.User, page int) (*domain.FeedPage, error) {
	repos := s.store.Repos()
	filter := repository.FilterForScope(scope, viewer.ID)

	ticketCount, err := repos.Tickets.CountVisible(ctx, filter)
	if err != nil {
		return nil, err
	}
	reviewCount, err := repos.Reviews.CountVisible(ctx, filter)
	if err != nil {
		return nil, err
	}

	p := domain.Paginate(page, ticketCount+reviewCount, domain.FeedPageSize)
	tickets, err := repos.Tickets.ListVisible(ctx, filter, p.Window())
	if err != nil {
		return nil, err
	}
	reviews, err := repos.Reviews.ListVisible(ctx, filter, p.Window())
	if err != nil {
		return nil, err
	}

	result := domain.BuildFeedPage(scope, tickets, reviews, p)
	return &result, nil
}
