package service

import (
	"github.com/spec-kit/litreview/internal/domain"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// Owned is implemented by tickets, reviews and follows.
type Owned interface {
	OwnedBy(userID int64) bool
}

// AssertOwner fails with PERMISSION_DENIED unless user owns entity.
func AssertOwner(user *domain.User, entity Owned, resource string) error {
	if user == nil || !entity.OwnedBy(user.ID) {
		return apperrors.NewPermissionDenied(resource)
	}
	return nil
}

// AssertNotAlreadyResponded fails with ALREADY_RESPONDED when a review references ticket.
func AssertNotAlreadyResponded(ticket *domain.Ticket) error {
	if ticket.Responded {
		return apperrors.NewAlreadyResponded(ticket.ID)
	}
	return nil
}
