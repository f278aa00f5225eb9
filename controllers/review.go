package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/redis"
	"github.com/mentortyme/backend/review"
)

type ReviewInput struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment" validate:"required"`
}

// CreateReview adds the client's review for one of their completed bookings
func CreateReview(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	input := new(ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review data",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Only the booking's client may review it.
	var b models.Booking
	if err := db.DB.Where("id = ? AND client_id = ?", input.BookingID, profile.ID).
		First(&b).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	r, err := review.Add(c.Context(), db.DB, redis.Client, input.BookingID, input.Rating, input.Comment)
	switch {
	case errors.Is(err, review.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be between 1 and 5",
		})
	case errors.Is(err, review.ErrAlreadyReviewed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already reviewed this booking",
		})
	case errors.Is(err, review.ErrNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only completed bookings can be reviewed",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// GetMentorReviews lists the reviews of a mentor, newest first
func GetMentorReviews(c *fiber.Ctx) error {
	mentorID := c.Params("id")

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	var reviews []models.Review
	if err := db.DB.
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.mentor_id = ?", mentorID).
		Order("reviews.created_at desc").
		Limit(limit).Offset(offset).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reviews",
		})
	}
	return c.JSON(reviews)
}
