// handlers/system_routes.go
package handlers

import (
	"time"

	"nird-resistance/workers"

	"github.com/gofiber/fiber/v2"
)

const Version = "1.0.0"

func SetupSystemRoutes(app *fiber.App, health *workers.HealthMonitor) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "API Résistance NIRD 2025",
			"status":   "online",
			"version":  Version,
			"database": currentHealth(c, health).Database,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		status := currentHealth(c, health)
		body := fiber.Map{
			"success":   status.Healthy(),
			"status":    "OK",
			"timestamp": time.Now().UTC(),
			"database":  status.Database,
			"lastCheck": status.CheckedAt,
		}
		if !status.Healthy() {
			body["status"] = "DEGRADED"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	})
}

// currentHealth returns the cached health check, running one if the scheduler has not yet.
func currentHealth(c *fiber.Ctx, health *workers.HealthMonitor) workers.HealthStatus {
	status := health.Status()
	if status.CheckedAt.IsZero() {
		status = health.Check(c.UserContext())
	}
	return status
}
