package models

import (
	"time"
)

// Service is a bookable offering of a mentor. Duration is in minutes and
// drives both slot generation and the end time of bookings.
type Service struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	MentorID    uint    `json:"mentor_id"`
	Mentor      Profile `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	Title       string  `json:"title" gorm:"size:200"`
	Description string  `json:"description" gorm:"size:500"`
	Duration    int     `json:"duration"` // minutes, always > 0
	Price       float64 `json:"price"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
