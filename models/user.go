package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Google OAuth credential for the calendar integration. Both fields are
	// empty when the user never connected a calendar.
	GoogleAccessToken  string `json:"-"`
	GoogleRefreshToken string `json:"-"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// HasGoogleCalendar reports whether the user has a linked Google account.
func (u *User) HasGoogleCalendar() bool {
	return u.GoogleAccessToken != "" || u.GoogleRefreshToken != ""
}
