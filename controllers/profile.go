package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/redis"
	"github.com/mentortyme/backend/review"
	"github.com/mentortyme/backend/utils"
)

// GetMentorBySlug returns the public profile of a mentor with their active
// services and average rating
func GetMentorBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var mentor models.Profile
	if err := db.DB.Preload("User").
		Where("slug = ? AND role = ?", slug, models.RoleMentor).
		First(&mentor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Mentor not found",
		})
	}
	mentor.User.Password = ""
	mentor.User.GoogleAccessToken = ""
	mentor.User.GoogleRefreshToken = ""

	var services []models.Service
	if err := db.DB.Where("mentor_id = ? AND is_active = ?", mentor.ID, true).
		Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch services",
		})
	}

	avg, hasRating, err := review.AverageRating(c.Context(), db.DB, redis.Client, mentor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute rating",
		})
	}

	resp := fiber.Map{
		"mentor":   mentor,
		"services": services,
	}
	if hasRating {
		resp["average_rating"] = avg
	}
	return c.JSON(resp)
}

// GetMyProfile returns the profile of the logged-in user
func GetMyProfile(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	if err := db.DB.Preload("User").First(profile, profile.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	profile.User.Password = ""
	return c.JSON(profile)
}

// Clients and mentors edit different field sets; the variant is picked by
// the profile's role, not by mutating one shared shape.
type ClientProfileUpdate struct {
	Bio    string `json:"bio" validate:"max=500"`
	Age    *uint  `json:"age"`
	Gender string `json:"gender" validate:"omitempty,oneof=male female other"`
	City   string `json:"city" validate:"max=50"`
}

type MentorProfileUpdate struct {
	Bio      string `json:"bio" validate:"max=500"`
	Age      *uint  `json:"age"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other"`
	City     string `json:"city" validate:"max=50"`
	Position string `json:"position" validate:"max=50"`
}

// UpdateMyProfile edits the profile fields allowed for the user's role. The
// slug never changes.
func UpdateMyProfile(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	if profile.IsMentor() {
		input := new(MentorProfileUpdate)
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
		}
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		profile.Bio = input.Bio
		profile.Age = input.Age
		profile.Gender = input.Gender
		profile.City = input.City
		profile.Position = input.Position
	} else {
		input := new(ClientProfileUpdate)
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
		}
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		profile.Bio = input.Bio
		profile.Age = input.Age
		profile.Gender = input.Gender
		profile.City = input.City
	}

	if err := db.DB.Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}
	return c.JSON(profile)
}

// UploadAvatar stores a new profile picture in Cloudinary
func UploadAvatar(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No avatar file provided",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read avatar file",
		})
	}
	defer file.Close()

	url, err := utils.UploadAvatar(file, fmt.Sprintf("profile_%d", profile.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload avatar",
		})
	}

	if err := db.DB.Model(profile).Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save avatar",
		})
	}
	return c.JSON(fiber.Map{"avatar_url": url})
}
