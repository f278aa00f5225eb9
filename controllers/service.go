package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
)

type ServiceInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=500"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// GetMyServices lists the logged-in mentor's services, active first
func GetMyServices(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	var services []models.Service
	if err := db.DB.Where("mentor_id = ?", profile.ID).
		Order("is_active desc, id desc").
		Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch services",
		})
	}
	return c.JSON(services)
}

// CreateService adds a new service for the logged-in mentor
func CreateService(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	input := new(ServiceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	service := models.Service{
		MentorID:    profile.ID,
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
		Price:       input.Price,
		IsActive:    true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := db.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService edits one of the mentor's own services
func UpdateService(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Where("id = ? AND mentor_id = ?", id, profile.ID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	input := new(ServiceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	service.Title = input.Title
	service.Description = input.Description
	service.Duration = input.Duration
	service.Price = input.Price
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := db.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service",
		})
	}
	return c.JSON(service)
}

// DeleteService removes one of the mentor's services. Existing bookings
// survive with their service reference nulled.
func DeleteService(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Where("id = ? AND mentor_id = ?", id, profile.ID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete service",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
