package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/controllers"
	"github.com/mentortyme/backend/middleware"
)

// SetupServiceRoutes configures service management and the public slots view
func SetupServiceRoutes(app *fiber.App) {
	app.Get("/services/:id/slots", controllers.GetServiceSlots)

	services := app.Group("/services", middleware.Protected(), middleware.RequireMentor())
	services.Get("/", controllers.GetMyServices)
	services.Post("/", controllers.CreateService)
	services.Patch("/:id", controllers.UpdateService)
	services.Delete("/:id", controllers.DeleteService)
}
