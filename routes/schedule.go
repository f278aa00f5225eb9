package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/controllers"
	"github.com/mentortyme/backend/middleware"
)

// SetupScheduleRoutes configures the mentor's weekly working hours
func SetupScheduleRoutes(app *fiber.App) {
	schedule := app.Group("/schedule", middleware.Protected(), middleware.RequireMentor())
	schedule.Get("/", controllers.GetSchedule)
	schedule.Put("/", controllers.UpdateSchedule)
}
