package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/booking"
	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/gcal"
	"github.com/mentortyme/backend/models"
)

// Calendar is the gateway shared by every handler. Swappable in tests.
var Calendar gcal.Client = gcal.NewGoogleClient()

func lifecycle() *booking.Manager {
	return booking.NewManager(db.DB, Calendar)
}

// currentProfile loads the profile of the authenticated user from locals.
func currentProfile(c *fiber.Ctx) (*models.Profile, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User ID not found in context")
	}

	var profile models.Profile
	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Profile not found")
	}
	return &profile, nil
}
