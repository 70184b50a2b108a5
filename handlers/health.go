package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/databridge-consult/databridge-api/database"
)

// HandleCheckHealth reports liveness plus database reachability
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	status := "ok"
	dbStatus := "ok"
	code := fiber.StatusOK

	if err := store.HealthCheck(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": dbStatus,
	})
}
