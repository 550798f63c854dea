package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "litreview:session:revoked:"

// SessionStore tracks revoked session ids in Redis until their token would have
// expired anyway. A store without a client keeps nothing, so logout then relies on
// the client dropping its cookie.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps client, which may be nil.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Revoke marks sessionID as logged out for the remaining ttl.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if s == nil || s.client == nil || sessionID == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
}

// IsRevoked reports whether sessionID was logged out.
func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	err := s.client.Get(ctx, revokedKeyPrefix+sessionID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
