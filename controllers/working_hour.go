package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
)

type ScheduleDay struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	IsActive  bool   `json:"is_active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GetSchedule returns the mentor's weekly schedule, one entry per day. Days
// without a row come back inactive with the editing defaults filled in; the
// defaults never participate in slot computation.
func GetSchedule(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	var hours []models.WorkingHour
	if err := db.DB.Where("mentor_id = ?", profile.ID).Order("id").Find(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch schedule",
		})
	}

	byDay := map[int]models.WorkingHour{}
	for _, h := range hours {
		if _, ok := byDay[int(h.DayOfWeek)]; !ok {
			byDay[int(h.DayOfWeek)] = h
		}
	}

	schedule := make([]ScheduleDay, 0, 7)
	for day := 0; day < 7; day++ {
		entry := ScheduleDay{DayOfWeek: day, StartTime: "09:00", EndTime: "18:00"}
		if h, ok := byDay[day]; ok {
			entry.IsActive = true
			entry.StartTime = h.StartTime
			entry.EndTime = h.EndTime
		}
		schedule = append(schedule, entry)
	}
	return c.JSON(schedule)
}

// UpdateSchedule rewrites the mentor's weekly schedule with replace-or-delete
// semantics: an active day updates or creates its single row, an inactive
// day removes it. A duplicate row per (mentor, day) is never appended.
func UpdateSchedule(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	var input []ScheduleDay
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	for _, day := range input {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "day_of_week must be between 0 and 6",
			})
		}
		if day.IsActive && !validWindow(day.StartTime, day.EndTime) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start_time must be HH:MM and before end_time",
			})
		}
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, day := range input {
			var existing models.WorkingHour
			found := tx.Where("mentor_id = ? AND day_of_week = ?", profile.ID, day.DayOfWeek).
				Order("id").
				First(&existing).Error == nil

			switch {
			case day.IsActive && found:
				existing.StartTime = day.StartTime
				existing.EndTime = day.EndTime
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case day.IsActive:
				wh := models.WorkingHour{
					MentorID:  profile.ID,
					DayOfWeek: models.DayOfWeek(day.DayOfWeek),
					StartTime: day.StartTime,
					EndTime:   day.EndTime,
				}
				if err := tx.Create(&wh).Error; err != nil {
					return err
				}
			case found:
				if err := tx.Where("mentor_id = ? AND day_of_week = ?", profile.ID, day.DayOfWeek).
					Delete(&models.WorkingHour{}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update schedule",
		})
	}

	return c.JSON(fiber.Map{"message": "Schedule updated"})
}

// validWindow checks "HH:MM" formats and start < end.
func validWindow(start, end string) bool {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	return s.Before(e)
}
