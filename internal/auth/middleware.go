package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/observability"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// AuthMiddleware resolves the session token from the Authorization header or the
// session cookie and loads the caller.
type AuthMiddleware struct {
	authn      *Authenticator
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authn *Authenticator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{authn: authn, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	m.attach(c, principal)
	return c.Next()
}

// Optional loads the caller when a valid session is present and continues either way.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if principal, err := m.resolve(c); err == nil {
		m.attach(c, principal)
	}
	return c.Next()
}

func (m *AuthMiddleware) attach(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
	c.Locals(observability.UserIDLocalKey, principal.User.ID)
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*Principal, error) {
	raw, err := m.extractToken(c)
	if err != nil {
		return nil, err
	}
	return m.authn.Authenticate(c.UserContext(), raw)
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorized("login required")
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal.User != nil
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.User
	}
	return nil
}
