package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
)

func parseRFC3339(s string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp — use RFC3339 (e.g., 2025-12-31T23:00:00Z)")
	}
	return &t, nil
}

// viewerFromCtx reads the viewer the middleware attached, if any.
func viewerFromCtx(c *fiber.Ctx) *models.Viewer {
	if v, ok := c.Locals("viewer").(*models.Viewer); ok {
		return v
	}
	return nil
}

// preconditionError maps the shared precondition failures onto the right
// status codes and everything else onto a generic notice. Transport/DB
// errors are logged here and never leak details to the client.
func preconditionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrContentTooLong),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrSelfFollow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
