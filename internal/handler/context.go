package handler

import (
	"errors"

	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Shouldn't happen in protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errStatus maps the service error kinds to HTTP statuses. Everything
// the register reports is recoverable by the caller.
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return 404
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrShiftAlreadyOpen),
		errors.Is(err, service.ErrRegisterClosed):
		return 409
	case errors.Is(err, service.ErrShiftIntegrity):
		return 500
	default:
		return 400
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
