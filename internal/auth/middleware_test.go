package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

type stubUsers struct {
	users map[int64]*domain.User
	err   error
}

func (s *stubUsers) Create(context.Context, *domain.User) error { return nil }

func (s *stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUsers) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func newTestApp(t *testing.T, sessions *SessionStore) (*fiber.App, *TokenManager) {
	t.Helper()
	tokens := NewTokenManager("secret", time.Hour)
	users := &stubUsers{users: map[int64]*domain.User{7: {ID: 7, Username: "alice"}}}
	mw := NewAuthMiddleware(NewAuthenticator(tokens, sessions, users, zap.NewNop()), "litreview_session")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})
	app.Get("/maybe", mw.Optional, func(c *fiber.Ctx) error {
		if user := CurrentUser(c); user != nil {
			return c.SendString(user.Username)
		}
		return c.SendString("anonymous")
	})
	return app, tokens
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func TestAuthMiddleware(t *testing.T) {
	_, client := newTestRedis(t)
	sessions := NewSessionStore(client)
	app, tokens := newTestApp(t, sessions)

	session, err := tokens.Issue(&domain.User{ID: 7, Username: "alice"})
	require.NoError(t, err)
	ghost, err := tokens.Issue(&domain.User{ID: 99, Username: "ghost"})
	require.NoError(t, err)

	t.Run("missing credentials", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", body(t, resp))
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "litreview_session", Value: session.Token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deleted user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+ghost.Token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("optional without session", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/maybe", nil))
		require.NoError(t, err)
		assert.Equal(t, "anonymous", body(t, resp))
	})

	t.Run("revoked session", func(t *testing.T) {
		require.NoError(t, sessions.Revoke(context.Background(), session.ID, time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthenticatorLookupFailureIsInternal(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	users := &stubUsers{err: errors.New("connection reset")}
	authn := NewAuthenticator(tokens, NewSessionStore(nil), users, zap.NewNop())

	session, err := tokens.Issue(&domain.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), session.Token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}
