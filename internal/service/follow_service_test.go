package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/litreview/internal/domain"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func TestFollowService_CreateFollowDecisionOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	_, err := f.follows.CreateFollow(ctx, alice, "nobody")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserNotFound))

	_, err = f.follows.CreateFollow(ctx, alice, " alice ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSelfFollow))

	follow, err := f.follows.CreateFollow(ctx, alice, " bob ")
	require.NoError(t, err)
	assert.Equal(t, "bob", follow.FollowedName)

	_, err = f.follows.CreateFollow(ctx, alice, "bob")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateFollow))
	assert.Equal(t, 1, f.store.Counts().Follows)

	_, err = f.follows.CreateFollow(ctx, alice, "  ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestFollowService_RacingInsertIsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	f.store.AfterFollowExists(func() {
		f.store.AfterFollowExists(nil)
		require.NoError(t, f.store.Repos().Follows.Create(ctx, &domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	})

	_, err := f.follows.CreateFollow(ctx, alice, "bob")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateFollow))
	assert.Equal(t, 1, f.store.Counts().Follows)
}

func TestFollowService_DeleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")

	toCarol := f.follow(t, alice, carol)
	f.follow(t, alice, bob)
	f.follow(t, carol, alice)
	f.follow(t, bob, alice)

	lists, err := f.follows.ListFollows(ctx, alice)
	require.NoError(t, err)
	require.Len(t, lists.Following, 2)
	assert.Equal(t, "bob", lists.Following[0].FollowedName)
	assert.Equal(t, "carol", lists.Following[1].FollowedName)
	require.Len(t, lists.Followers, 2)
	assert.Equal(t, "bob", lists.Followers[0].FollowerName)

	err = f.follows.DeleteFollow(ctx, carol, toCarol.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, f.follows.DeleteFollow(ctx, alice, toCarol.ID))
	assert.True(t, apperrors.HasCode(f.follows.DeleteFollow(ctx, alice, toCarol.ID), apperrors.CodeNotFound))

	lists, err = f.follows.ListFollows(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, lists.Following, 1)
}
