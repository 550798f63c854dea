package dto

import (
	"time"

	"github.com/spec-kit/litreview/internal/domain"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAuthResponse pairs a user with their new session.
func NewAuthResponse(user *domain.User, session *domain.Session) AuthResponse {
	return AuthResponse{
		User:      UserResponse{ID: user.ID, Username: user.Username},
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
