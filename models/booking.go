package models

import (
	"time"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// NoteMaxLen is the longest note a client can attach to a booking. Longer
// input is truncated, not rejected.
const NoteMaxLen = 500

// Booking is a confirmed session between a client and a mentor. A booking
// outlives its service (the reference is nulled when the service is deleted)
// and is removed entirely on cancellation.
type Booking struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	ClientID uint    `json:"client_id" gorm:"index"`
	Client   Profile `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	MentorID uint    `json:"mentor_id" gorm:"index"`
	Mentor   Profile `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`

	ServiceID *uint    `json:"service_id,omitempty"`
	Service   *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:SET NULL"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    BookingStatus `json:"status" gorm:"default:confirmed"`

	// Event ids in the mentor's and client's Google calendars. Empty when
	// the respective side has no linked calendar or the call failed.
	GoogleEventID       string `json:"google_event_id,omitempty"`
	ClientGoogleEventID string `json:"client_google_event_id,omitempty"`

	// PriceAtBooking is snapshotted from the service at creation and never
	// recomputed, even if the service price changes later.
	PriceAtBooking float64 `json:"price_at_booking"`
	Note           string  `json:"note,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Review *Review `json:"review,omitempty" gorm:"foreignKey:BookingID"`
}

// NewBooking builds a confirmed booking for a service slot. Derived fields
// (end time, price snapshot, note truncation) are computed here once rather
// than in a persistence hook.
func NewBooking(client, mentor Profile, service Service, start time.Time, note string) *Booking {
	if runes := []rune(note); len(runes) > NoteMaxLen {
		note = string(runes[:NoteMaxLen])
	}
	serviceID := service.ID
	return &Booking{
		ClientID:       client.ID,
		MentorID:       mentor.ID,
		ServiceID:      &serviceID,
		StartTime:      start,
		EndTime:        start.Add(time.Duration(service.Duration) * time.Minute),
		Status:         StatusConfirmed,
		PriceAtBooking: service.Price,
		Note:           note,
	}
}
