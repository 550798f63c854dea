package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/litreview/internal/domain"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func TestAssertOwner(t *testing.T) {
	alice := &domain.User{ID: 1}
	bob := &domain.User{ID: 2}

	assert.NoError(t, AssertOwner(alice, &domain.Ticket{OwnerID: 1}, "ticket"))
	assert.True(t, apperrors.HasCode(AssertOwner(bob, &domain.Ticket{OwnerID: 1}, "ticket"), apperrors.CodePermissionDenied))
	assert.True(t, apperrors.HasCode(AssertOwner(bob, &domain.Review{OwnerID: 1}, "review"), apperrors.CodePermissionDenied))
	assert.NoError(t, AssertOwner(bob, &domain.Follow{FollowerID: 2, FollowedID: 1}, "follow"))
	assert.True(t, apperrors.HasCode(AssertOwner(alice, &domain.Follow{FollowerID: 2, FollowedID: 1}, "follow"), apperrors.CodePermissionDenied))
	assert.Error(t, AssertOwner(nil, &domain.Ticket{OwnerID: 1}, "ticket"))
}

func TestAssertNotAlreadyResponded(t *testing.T) {
	assert.NoError(t, AssertNotAlreadyResponded(&domain.Ticket{ID: 3}))

	err := AssertNotAlreadyResponded(&domain.Ticket{ID: 3, Responded: true})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyResponded))
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}
