package handlers

import (
	"seefinish-platform/middleware"
	"seefinish-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRoastRoutes(app *fiber.App, roastService *services.RoastService) {
	// 🔓 Public reads — viewer context optional, gateway auth still applies
	app.Get("/roasts", roastService.GetFeed)
	app.Get("/comments", roastService.GetComments)

	// 🔐 Mutations require a signed-in viewer
	secured := app.Group("/", middleware.RequireViewer())

	secured.Post("/roasts", roastService.CreateRoast)
	secured.Delete("/roasts/:id", roastService.DeleteRoast)
	secured.Put("/likes", roastService.ToggleLike)
	secured.Post("/comments", roastService.CreateComment)
}
