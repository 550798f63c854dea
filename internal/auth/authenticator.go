package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// Authenticator turns a session token into a principal.
type Authenticator struct {
	tokens   *TokenManager
	sessions *SessionStore
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewAuthenticator wires the token, revocation and user lookups.
func NewAuthenticator(tokens *TokenManager, sessions *SessionStore, users repository.UserRepository, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions, users: users, logger: logger}
}

// Authenticate rejects invalid, expired and logged-out sessions as well as sessions
// whose user no longer exists.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := a.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired session")
	}

	revoked, err := a.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Warn("session revocation check failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("session has been logged out")
	}

	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.ToDomainError(err)
	}
	return &Principal{User: user, Claims: claims}, nil
}
