package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/controllers"
	"github.com/mentortyme/backend/middleware"
)

// SetupBookingRoutes configures bookings, reviews and the dashboard
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())
	bookings.Post("/", controllers.CreateBooking)
	bookings.Delete("/:id", controllers.CancelBooking)
	bookings.Post("/reviews", controllers.CreateReview)

	app.Get("/dashboard", middleware.Protected(), controllers.GetDashboard)
}
