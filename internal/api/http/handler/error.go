package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/logger"
)

// respondError renders err as {message, errors}. Untyped and nil errors
// become 500 with defaultMessage; their detail is logged, never sent.
func respondError(c *fiber.Ctx, log *logger.Logger, err error, defaultMessage string) error {
	apiErr := apiErrors.Normalize(err, defaultMessage)
	status := apiErr.StatusCode()

	if status >= fiber.StatusInternalServerError {
		log.ErrorContext(c.UserContext(), "HTTP handler: request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", apiErr.Error())
	} else {
		log.DebugContext(c.UserContext(), "HTTP handler: request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"kind", apiErr.Kind.String(),
			"message", apiErr.Message)
	}

	return c.Status(status).JSON(apiErr.Body())
}

// ErrorHandler renders errors that escape handlers, such as unknown routes,
// in the same shape as handler failures.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			body := apiErrors.Body{Message: fiberErr.Message, Errors: []string{fiberErr.Message}}
			return c.Status(fiberErr.Code).JSON(body)
		}
		return respondError(c, log, err, "Internal Server Error")
	}
}
