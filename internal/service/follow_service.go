package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// FollowLists is what the follows page shows.
type FollowLists struct {
	Following []domain.Follow
	Followers []domain.Follow
}

// FollowService manages the follow graph.
type FollowService struct {
	store  repository.Store
	events eventPublisher
}

// NewFollowService constructs the service.
func NewFollowService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *FollowService {
	return &FollowService{
		store:  store,
		events: eventPublisher{dispatcher: dispatcher, logger: logger},
	}
}

// CreateFollow makes follower follow the user named followedName. Checks run in a
// fixed order: unknown user, self, duplicate. Constraint violations from a racing
// insert map to the same errors.
func (s *FollowService) CreateFollow(ctx context.Context, follower *domain.User, followedName string) (*domain.Follow, error) {
	name := strings.TrimSpace(followedName)
	if name == "" {
		errs := domain.FieldErrors{}
		errs.Add("username", "this field is required")
		return nil, validationError("invalid follow", errs)
	}

	repos := s.store.Repos()
	followed, err := repos.Users.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUserNotFound(name)
		}
		return nil, err
	}
	if followed.ID == follower.ID {
		return nil, apperrors.NewSelfFollow()
	}

	exists, err := repos.Follows.Exists(ctx, follower.ID, followed.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewDuplicateFollow(followed.Username)
	}

	follow := &domain.Follow{
		FollowerID:   follower.ID,
		FollowerName: follower.Username,
		FollowedID:   followed.ID,
		FollowedName: followed.Username,
	}
	if err := repos.Follows.Create(ctx, follow); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewDuplicateFollow(followed.Username)
		case errors.Is(err, repository.ErrCheckViolation):
			return nil, apperrors.NewSelfFollow()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewUserNotFound(name)
		}
		return nil, err
	}

	s.events.publish(ctx, events.NewEvent(events.EventFollowCreated, follower.ID, events.FollowPayload{
		FollowID:     follow.ID,
		FollowedID:   followed.ID,
		FollowedName: followed.Username,
	}))
	return follow, nil
}

// GetOwnedFollow loads a follow the user may delete.
func (s *FollowService) GetOwnedFollow(ctx context.Context, user *domain.User, followID int64) (*domain.Follow, error) {
	follow, err := s.store.Repos().Follows.GetByID(ctx, followID)
	if err != nil {
		return nil, notFound("follow", followID, err)
	}
	if err := AssertOwner(user, follow, "follow"); err != nil {
		return nil, err
	}
	return follow, nil
}

// DeleteFollow removes a follow owned by its follower.
func (s *FollowService) DeleteFollow(ctx context.Context, user *domain.User, followID int64) error {
	follow, err := s.GetOwnedFollow(ctx, user, followID)
	if err != nil {
		return err
	}
	if err := s.store.Repos().Follows.Delete(ctx, followID); err != nil {
		return notFound("follow", followID, err)
	}

	s.events.publish(ctx, events.NewEvent(events.EventFollowDeleted, user.ID, events.FollowPayload{
		FollowID:     follow.ID,
		FollowedID:   follow.FollowedID,
		FollowedName: follow.FollowedName,
	}))
	return nil
}

// ListFollows returns who the user follows and who follows them, each by username.
func (s *FollowService) ListFollows(ctx context.Context, user *domain.User) (*FollowLists, error) {
	repos := s.store.Repos()
	following, err := repos.Follows.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := repos.Follows.ListFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &FollowLists{Following: following, Followers: followers}, nil
}
