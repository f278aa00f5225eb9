package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/controllers"
	"github.com/mentortyme/backend/middleware"
)

// SetupProfileRoutes configures public mentor pages and profile settings
func SetupProfileRoutes(app *fiber.App) {
	app.Get("/mentors/:slug", controllers.GetMentorBySlug)
	app.Get("/mentors/:id/reviews", controllers.GetMentorReviews)

	profile := app.Group("/profile", middleware.Protected())
	profile.Get("/", controllers.GetMyProfile)
	profile.Patch("/", controllers.UpdateMyProfile)
	profile.Post("/avatar", controllers.UploadAvatar)
}
