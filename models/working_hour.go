package models

import (
	"time"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WorkingHour is the declared window a mentor works on one day of the week.
// The schedule writer keeps at most one row per (mentor, day_of_week) by
// replacing or deleting the existing row, never appending a duplicate.
type WorkingHour struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MentorID  uint      `json:"mentor_id" gorm:"index"`
	Mentor    Profile   `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	DayOfWeek DayOfWeek `json:"day_of_week"`
	StartTime string    `json:"start_time"` // "HH:MM", 24h
	EndTime   string    `json:"end_time"`   // "HH:MM", 24h, after StartTime

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
