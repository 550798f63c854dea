package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/config"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/repository/memstore"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func newAuthService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memstore.New()
	svc := NewAuthService(config.AuthConfig{BcryptCost: 4}, AuthDependencies{
		Users:    store.Repos().Users,
		Tokens:   auth.NewTokenManager("secret", time.Hour),
		Sessions: auth.NewSessionStore(client),
		Logger:   zap.NewNop(),
	})
	return svc, mr
}

func signupForm(name string) domain.SignupForm {
	return domain.SignupForm{Username: name, Password: "hunter2hunter2", PasswordCheck: "hunter2hunter2"}
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, session, err := svc.Signup(ctx, signupForm(" alice "))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NotEmpty(t, session.Token)

	current, err := svc.CurrentUser(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	loggedIn, _, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, signupForm("alice"))
	require.NoError(t, err)
	_, _, err = svc.Signup(ctx, signupForm("alice"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateUsername))
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, err := svc.Signup(context.Background(), domain.SignupForm{Username: "bob", Password: "short", PasswordCheck: "other"})
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "password_check")
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, _, err := svc.Signup(ctx, signupForm("alice"))
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice", "not-the-password")
	_, _, unknownUser := svc.Login(ctx, "mallory", "not-the-password")
	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Message, apperrors.ToDomainError(unknownUser).Message)
	assert.True(t, apperrors.HasCode(unknownUser, apperrors.CodeUnauthorized))

	_, _, err = svc.Login(ctx, "", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestAuthService_Logout(t *testing.T) {
	svc, mr := newAuthService(t)
	ctx := context.Background()
	_, session, err := svc.Signup(ctx, signupForm("alice"))
	require.NoError(t, err)

	principal, err := svc.Authenticator().Authenticate(ctx, session.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, principal.Claims))

	_, err = svc.CurrentUser(ctx, session.Token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	ttl := mr.TTL("litreview:session:revoked:" + session.ID)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}
