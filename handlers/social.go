package handlers

import (
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"seefinish-platform/middleware"
	"seefinish-platform/services"
	"seefinish-platform/utils"
)

func SetupSocialRoutes(app *fiber.App, profileService *services.ProfileService, searchService *services.SearchService, notificationService *services.NotificationService) {
	app.Get("/profiles/:username", profileService.GetProfile)
	app.Get("/leaderboard", profileService.GetLeaderboard)
	app.Get("/search", searchService.SearchAll)

	secured := app.Group("/", middleware.RequireViewer())

	secured.Put("/profiles/me", profileService.UpdateProfile)
	secured.Put("/follows", profileService.Follow)

	secured.Get("/notifications", notificationService.GetNotifications)
	secured.Put("/notifications/:id/read", notificationService.MarkNotificationRead)
	secured.Put("/notifications/read-all", notificationService.MarkAllNotificationsRead)

	secured.Post("/uploads", uploadImage)
}

// uploadImage validates the file entirely locally before any byte is
// sent to R2, then returns the public CDN URL for the caller to attach.
func uploadImage(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}
	if err := utils.ValidateImage(fileHeader); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ext := filepath.Ext(fileHeader.Filename)
	key := "roast-media/" + viewer.UserID + "/" + uuid.NewString() + ext

	url, err := utils.UploadImageToR2(fileHeader, key)
	if err != nil {
		log.Printf("❌ Failed to upload image for user %s: %v", viewer.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
