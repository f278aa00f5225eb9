// Package scheduling computes the bookable slots of a mentor by merging the
// declared working hours with two busy-time sources: the mentor's external
// Google calendar and the locally confirmed bookings.
package scheduling

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mentortyme/backend/gcal"
	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/utils"
)

// BufferMinutes is the fixed reset time between consecutive sessions. Slot
// candidates step forward by the session duration plus this buffer.
const BufferMinutes = 15

type interval struct {
	start time.Time
	end   time.Time
}

// AvailableSlots returns the free slot start times of a mentor on the given
// date as ascending "HH:MM" strings. An empty list means the mentor does not
// work that day or every candidate collided with a busy interval.
//
// durationMinutes must be positive; upstream validation rejects anything
// else before it gets here.
//
// A calendar failure degrades to "no external busy data": slots are then
// computed from local bookings alone.
func AvailableSlots(ctx context.Context, db *gorm.DB, cal gcal.Client, mentor *models.Profile, date time.Time, durationMinutes int) ([]string, error) {
	// Working hours for this weekday. No row means the mentor does not work
	// that day, full stop.
	var wh models.WorkingHour
	err := db.Where("mentor_id = ? AND day_of_week = ?", mentor.ID, int(date.Weekday())).
		Order("id").
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	loc := utils.AppLocation()
	workStart, err := combine(date, wh.StartTime, loc)
	if err != nil {
		return nil, err
	}
	workEnd, err := combine(date, wh.EndTime, loc)
	if err != nil {
		return nil, err
	}

	busy, err := collectBusy(ctx, db, cal, mentor, date, loc)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := duration + BufferMinutes*time.Minute

	slots := []string{}
	for cur := workStart; !cur.Add(duration).After(workEnd); cur = cur.Add(step) {
		if !overlapsAny(cur, cur.Add(duration), busy) {
			slots = append(slots, cur.Format("15:04"))
		}
	}
	return slots, nil
}

// collectBusy merges the external calendar's busy periods with the mentor's
// confirmed bookings for the date. The order of intervals is irrelevant to
// the overlap test.
func collectBusy(ctx context.Context, db *gorm.DB, cal gcal.Client, mentor *models.Profile, date time.Time, loc *time.Location) ([]interval, error) {
	var busy []interval

	if cal != nil {
		var owner models.User
		if err := db.First(&owner, mentor.UserID).Error; err != nil {
			return nil, err
		}
		periods, err := cal.FetchBusy(ctx, &owner, date)
		if err != nil {
			// Calendar unavailability must not block local booking.
			log.Printf("gcal: fetch busy for user %d failed: %v", owner.ID, err)
			periods = nil
		}
		for _, p := range periods {
			busy = append(busy, interval{start: p.Start, end: p.End})
		}
	}

	// Midnight to midnight. A DST-transition day spans 23 or 25 wall-clock
	// hours, so the end is the next calendar day's midnight, not start+24h.
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc)

	var bookings []models.Booking
	if err := db.Where("mentor_id = ? AND status = ? AND start_time >= ? AND start_time < ?",
		mentor.ID, models.StatusConfirmed, dayStart, dayEnd).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	for _, b := range bookings {
		busy = append(busy, interval{start: b.StartTime.In(loc), end: b.EndTime.In(loc)})
	}

	return busy, nil
}

// overlapsAny tests the candidate [start, end) against every busy interval
// under half-open semantics.
func overlapsAny(start, end time.Time, busy []interval) bool {
	for _, b := range busy {
		if start.Before(b.end) && end.After(b.start) {
			return true
		}
	}
	return false
}

// combine builds the local datetime of an "HH:MM" time-of-day on date.
func combine(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
