package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/config"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/repository"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

const invalidCredentials = "invalid username or password"

// AuthService coordinates registration, login and logout.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	sessions   *auth.SessionStore
	authn      *auth.Authenticator
	bcryptCost int
	logger     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
	now       func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users    repository.UserRepository
	Tokens   *auth.TokenManager
	Sessions *auth.SessionStore
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.Users,
		tokens:     deps.Tokens,
		sessions:   deps.Sessions,
		authn:      auth.NewAuthenticator(deps.Tokens, deps.Sessions, deps.Users, deps.Logger),
		bcryptCost: cfg.BcryptCost,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Authenticator exposes the token resolver used by the HTTP middleware.
func (s *AuthService) Authenticator() *auth.Authenticator {
	return s.authn
}

// Signup registers a user and opens a session for them.
func (s *AuthService) Signup(ctx context.Context, form domain.SignupForm) (*domain.User, *domain.Session, error) {
	username, errs := form.Validate()
	if !errs.Empty() {
		return nil, nil, validationError("invalid signup", errs)
	}

	hash, err := auth.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, apperrors.NewDuplicateUsername(username)
		}
		return nil, nil, err
	}

	session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user signed up", zap.Int64("user_id", user.ID))
	return user, session, nil
}

// Login checks the credentials. Unknown users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	username = strings.TrimSpace(username)
	errs := domain.FieldErrors{}
	if username == "" {
		errs.Add("username", "this field is required")
	}
	if password == "" {
		errs.Add("password", "this field is required")
	}
	if !errs.Empty() {
		return nil, nil, validationError("invalid login", errs)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			_ = auth.ComparePassword(s.fallbackHash(), password)
			return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if auth.IsMismatch(err) {
			return nil, nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, nil, err
	}

	session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	return s.sessions.Revoke(ctx, claims.ID, remaining)
}

// CurrentUser resolves token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	principal, err := s.authn.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return principal.User, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword("litreview-placeholder-password", s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
