package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	pinger   Pinger
	optional bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName  string
	version      string
	dependencies []dependency
}

// NewHealthHandler returns a new handler instance. A nil redis is reported as disabled
// and does not affect readiness.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		dependencies: []dependency{
			{name: "postgres", pinger: postgres},
			{name: "redis", pinger: redis, optional: true},
		},
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready pings every dependency and answers 503 when a required one fails.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	status := fiber.Map{}
	ready := true
	for _, dep := range h.dependencies {
		if dep.pinger == nil {
			if dep.optional {
				status[dep.name] = "disabled"
				continue
			}
			status[dep.name] = "not configured"
			ready = false
			continue
		}
		if err := dep.pinger.Ping(ctx); err != nil {
			status[dep.name] = err.Error()
			ready = false
			continue
		}
		status[dep.name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": status,
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"service":      h.serviceName,
		"dependencies": status,
	})
}
