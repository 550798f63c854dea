package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/observability"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func newMiddlewareApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(prometheus.NewRegistry()), time.Second)
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("db down") })
	app.Get("/domain", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("invalid ticket", map[string]any{"title": "this field is required"})
	})
	return app
}

func TestErrorHandlingMiddleware(t *testing.T) {
	app := newMiddlewareApp(t)

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/panic", fiber.StatusInternalServerError, apperrors.CodeInternal},
		{"/plain", fiber.StatusInternalServerError, apperrors.CodeInternal},
		{"/domain", fiber.StatusBadRequest, apperrors.CodeValidation},
		{"/no-such-route", fiber.StatusNotFound, apperrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

			var body struct {
				Error struct {
					Code    string         `json:"code"`
					Message string         `json:"message"`
					Details map[string]any `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Error.Code)
			if tc.code == apperrors.CodeInternal {
				assert.Equal(t, "internal server error", body.Error.Message)
			}
		})
	}
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
