package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/litreview/internal/api/dto"
	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/config"
	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/service"
)

// Success targets returned in the "redirect" field.
const (
	RedirectFeed    = "/feed"
	RedirectPosts   = "/posts"
	RedirectLogin   = "/auth/login"
	RedirectFollows = "/follows"
)

// AuthHandler exposes login, signup and logout.
type AuthHandler struct {
	auth   *service.AuthService
	cookie config.SessionConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// LoginForm handles GET /auth/login. A caller who is already logged in is sent to the
// feed.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if user := auth.CurrentUser(c); user != nil {
		return loggedIn(c, user)
	}
	return c.JSON(fiber.Map{"data": dto.LoginForm})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.LoginForm, err)
	}
	user, session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return rerender(c, dto.LoginForm, err)
	}
	h.setSessionCookie(c, session)
	return success(c, http.StatusOK, dto.NewAuthResponse(user, session), RedirectFeed)
}

// SignupForm handles GET /auth/signup.
func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	if user := auth.CurrentUser(c); user != nil {
		return loggedIn(c, user)
	}
	return c.JSON(fiber.Map{"data": dto.SignupForm})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bindForm(c, &req); err != nil {
		return rerender(c, dto.SignupForm, err)
	}
	user, session, err := h.auth.Signup(c.UserContext(), req.Form())
	if err != nil {
		return rerender(c, dto.SignupForm, err)
	}
	h.setSessionCookie(c, session)
	return success(c, http.StatusCreated, dto.NewAuthResponse(user, session), RedirectFeed)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if ok {
		if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return success(c, http.StatusOK, nil, RedirectLogin)
}

func loggedIn(c *fiber.Ctx, user *domain.User) error {
	return success(c, http.StatusOK, dto.UserResponse{ID: user.ID, Username: user.Username}, RedirectFeed)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *domain.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
