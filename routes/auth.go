package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/controllers"
)

// SetupAuthRoutes configures registration and login
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
}
