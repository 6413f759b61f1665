package middleware

import (
	"log"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
)

// ViewerContextMiddleware extracts the authenticated user set by the
// Gateway into an explicit *models.Viewer. It never rejects: public reads
// run with a nil viewer, and services gate mutations themselves.
func ViewerContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		username := c.Get("X-Username")

		if userID != "" {
			c.Locals("viewer", &models.Viewer{UserID: userID, Username: username})
		}

		return c.Next()
	}
}

// RequireViewer rejects requests that did not arrive with a user context.
// Applied to mutation routes.
func RequireViewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Viewer(c) == nil {
			log.Printf("🚫 [VIEWER] Unauthenticated request to secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "you must be logged in to do this",
			})
		}
		return c.Next()
	}
}

// Viewer returns the authenticated viewer for this request, or nil.
func Viewer(c *fiber.Ctx) *models.Viewer {
	if v, ok := c.Locals("viewer").(*models.Viewer); ok {
		return v
	}
	return nil
}
