package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentortyme/backend/booking"
	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/scheduling"
	"github.com/mentortyme/backend/utils"
)

// GetServiceSlots returns the free "HH:MM" slots of a service's mentor for
// the requested date
func GetServiceSlots(c *fiber.Ctx) error {
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Preload("Mentor").First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), utils.AppLocation())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	slots, err := scheduling.AvailableSlots(c.Context(), db.DB, Calendar, &service.Mentor, date, service.Duration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

type CreateBookingInput struct {
	ServiceID uint   `json:"service_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Note      string `json:"note"`
}

// CreateBooking books a slot for the logged-in client
func CreateBooking(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	input := new(CreateBookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking request",
			Error:   err.Error(),
		})
	}

	start, err := time.ParseInLocation("2006-01-02 15:04",
		fmt.Sprintf("%s %s", input.Date, input.Time), utils.AppLocation())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date or time format",
		})
	}

	var service models.Service
	if err := db.DB.First(&service, input.ServiceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}

	b, err := lifecycle().Create(c.Context(), profile, &service, start, input.Note)
	switch {
	case errors.Is(err, booking.ErrActiveBookingExists):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "You already have an active booking with this mentor. Wait until it completes.",
		})
	case errors.Is(err, booking.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Time slot not available",
		})
	case errors.Is(err, booking.ErrServiceInactive):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Service is not available for booking",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking",
			Error:   err.Error(),
		})
	}

	sendBookingEmails(b, &service)

	return c.Status(fiber.StatusCreated).JSON(b)
}

// CancelBooking cancels an upcoming booking of the logged-in client
func CancelBooking(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking ID",
		})
	}

	err = lifecycle().Cancel(c.Context(), profile, uint(id))
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	case errors.Is(err, booking.ErrPastBooking):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot cancel a booking that already started",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to cancel booking",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Booking cancelled"})
}

// GetDashboard returns the active bookings and history for the logged-in
// user, both as a client and (for mentors) as a mentor. Expired bookings are
// swept to completed first so the split matches wall-clock time.
func GetDashboard(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	if err := lifecycle().SweepExpired(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to refresh booking statuses",
			Error:   err.Error(),
		})
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	now := time.Now()

	var clientActive, clientHistory []models.Booking
	if err := db.DB.Preload("Mentor.User").Preload("Service").
		Where("client_id = ? AND status = ? AND start_time >= ?", profile.ID, models.StatusConfirmed, now).
		Order("start_time asc").
		Find(&clientActive).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
		})
	}
	if err := db.DB.Preload("Mentor.User").Preload("Service").Preload("Review").
		Where("client_id = ? AND start_time < ?", profile.ID, now).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&clientHistory).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch booking history",
		})
	}

	resp := fiber.Map{
		"client_active":  clientActive,
		"client_history": clientHistory,
	}

	if profile.IsMentor() {
		var mentorActive, mentorHistory []models.Booking
		if err := db.DB.Preload("Client.User").Preload("Service").
			Where("mentor_id = ? AND status = ? AND start_time >= ?", profile.ID, models.StatusConfirmed, now).
			Order("start_time asc").
			Find(&mentorActive).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch bookings",
			})
		}
		if err := db.DB.Preload("Client.User").Preload("Service").Preload("Review").
			Where("mentor_id = ? AND start_time < ?", profile.ID, now).
			Order("start_time desc").
			Limit(limit).Offset(offset).
			Find(&mentorHistory).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch booking history",
			})
		}
		resp["mentor_active"] = mentorActive
		resp["mentor_history"] = mentorHistory
	}

	return c.JSON(resp)
}

// sendBookingEmails notifies both parties, best-effort.
func sendBookingEmails(b *models.Booking, service *models.Service) {
	var client, mentor models.User
	if err := db.DB.Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.id = ?", b.ClientID).First(&client).Error; err != nil {
		log.Printf("booking %d: client user lookup failed: %v", b.ID, err)
		return
	}
	if err := db.DB.Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.id = ?", b.MentorID).First(&mentor).Error; err != nil {
		log.Printf("booking %d: mentor user lookup failed: %v", b.ID, err)
		return
	}

	when := fmt.Sprintf("%s – %s",
		b.StartTime.Format("2006-01-02 15:04"), b.EndTime.Format("15:04"))

	clientBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your session has been booked.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Mentor:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
	`, client.Name, service.Title, mentor.Name, when)
	if err := utils.SendEmail(client.Email, "Booking Confirmation", clientBody); err != nil {
		log.Printf("booking %d: client confirmation email failed: %v", b.ID, err)
	}

	mentorBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have a new session booked.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Client:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
	`, mentor.Name, service.Title, client.Name, when)
	if err := utils.SendEmail(mentor.Email, "New Session Booked", mentorBody); err != nil {
		log.Printf("booking %d: mentor confirmation email failed: %v", b.ID, err)
	}
}
