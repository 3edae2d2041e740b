package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accountd/internal/logger"
)

// Logging logs every HTTP request with its status and duration.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()
	method := c.Method()
	path := c.Path()

	l.logger.DebugContext(c.UserContext(), "HTTP request started",
		"method", method,
		"path", path)

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	l.logger.InfoContext(c.UserContext(), "HTTP request completed",
		"method", method,
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	if err != nil {
		l.logger.ErrorContext(c.UserContext(), "HTTP request failed",
			"method", method,
			"path", path,
			"error", err.Error(),
			"status", status)
	}

	return err
}
