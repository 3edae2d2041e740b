package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accountd/internal/model"
)

const readyTimeout = time.Second

// Health serves liveness and readiness probes.
type Health struct {
	backend model.Pinger
}

func NewHealth(backend model.Pinger) *Health {
	return &Health{backend: backend}
}

func (h *Health) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready pings the default storage backend.
func (h *Health) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "not_ready",
			"details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
