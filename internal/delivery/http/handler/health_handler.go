package handler

import (
	"github.com/gofiber/fiber/v2"

	"adinsights/internal/config"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		config: cfg,
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"app":    h.config.App.Name,
		"env":    h.config.App.Env,
	})
}
