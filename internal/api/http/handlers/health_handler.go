package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// dependencyCheck pings one optional backend. Disabled backends are
// reported but never fail readiness.
type dependencyCheck struct {
	name    string
	enabled bool
	ping    func(context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	started     time.Time
	postgres    *persistence.Postgres
	checks      []dependencyCheck
}

// NewHealthHandler returns a new handler instance. Either backend may be nil.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		started:     time.Now(),
		postgres:    postgres,
		checks: []dependencyCheck{
			{name: "postgres", enabled: postgres.Enabled(), ping: postgres.Ping},
			{name: "redis", enabled: redis != nil, ping: redis.Ping},
		},
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// Ready pings every configured backend.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	deps := fiber.Map{}
	ready := true
	for _, check := range h.checks {
		switch {
		case !check.enabled:
			deps[check.name] = "disabled"
		case check.ping(ctx) != nil:
			deps[check.name] = "unreachable"
			ready = false
		default:
			deps[check.name] = "ok"
		}
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": deps,
			},
		})
	}

	body := fiber.Map{"status": "ready", "dependencies": deps}
	if h.postgres.Enabled() {
		body["postgres_pool"] = h.postgres.Stats()
	}
	return c.JSON(body)
}
