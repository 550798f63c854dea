package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/litreview/internal/api/http/handlers"
	"github.com/spec-kit/litreview/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	Feed               *handlers.FeedHandler
	Tickets            *handlers.TicketsHandler
	Reviews            *handlers.ReviewsHandler
	Follows            *handlers.FollowsHandler
	Media              *handlers.MediaHandler
	AuthMiddleware     *auth.AuthMiddleware
	Gatherer           prometheus.Gatherer
	LoginRatePerMinute int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	credentials := LoginRateLimiter(cfg.LoginRatePerMinute)
	authGroup := app.Group("/auth")
	authGroup.Get("/login", cfg.AuthMiddleware.Optional, cfg.Auth.LoginForm)
	authGroup.Post("/login", credentials, cfg.Auth.Login)
	authGroup.Get("/signup", cfg.AuthMiddleware.Optional, cfg.Auth.SignupForm)
	authGroup.Post("/signup", credentials, cfg.Auth.Signup)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/", func(c *fiber.Ctx) error { return c.Redirect(handlers.RedirectFeed) })
	protected.Get("/feed", cfg.Feed.Feed)
	protected.Get("/posts", cfg.Feed.Posts)

	protected.Get("/tickets/create", cfg.Tickets.CreateForm)
	protected.Post("/tickets/create", cfg.Tickets.Create)
	protected.Get("/tickets/:id/edit", cfg.Tickets.EditForm)
	protected.Post("/tickets/:id/edit", cfg.Tickets.Edit)
	protected.Get("/tickets/:id/delete", cfg.Tickets.DeleteForm)
	protected.Post("/tickets/:id/delete", cfg.Tickets.Delete)
	protected.Get("/tickets/:id/respond", cfg.Tickets.RespondForm)
	protected.Post("/tickets/:id/respond", cfg.Tickets.Respond)

	protected.Get("/reviews/create", cfg.Reviews.CreateForm)
	protected.Post("/reviews/create", cfg.Reviews.Create)
	protected.Get("/reviews/:id/edit", cfg.Reviews.EditForm)
	protected.Post("/reviews/:id/edit", cfg.Reviews.Edit)
	protected.Get("/reviews/:id/delete", cfg.Reviews.DeleteForm)
	protected.Post("/reviews/:id/delete", cfg.Reviews.Delete)

	protected.Get("/follows", cfg.Follows.List)
	protected.Post("/follows", cfg.Follows.Create)
	protected.Get("/follows/:id/delete", cfg.Follows.DeleteForm)
	protected.Post("/follows/:id/delete", cfg.Follows.Delete)

	protected.Get("/media/:key", cfg.Media.Serve)
}
