package handlers

import (
	"seefinish-platform/middleware"
	"seefinish-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDebateRoutes(app *fiber.App, debateService *services.DebateService) {
	app.Get("/debates", debateService.GetFeed)
	app.Get("/debates/:id", debateService.GetDebateByID)

	secured := app.Group("/", middleware.RequireViewer())

	secured.Post("/debates", debateService.CreateDebate)
	secured.Post("/debates/:id/join", debateService.JoinDebate)
}
