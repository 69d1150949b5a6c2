package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/database"
	"github.com/vidyasetu/school-api/utils/response"
)

// HealthHandler reports liveness of the API and its database connection.
type HealthHandler struct {
	store database.Storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
