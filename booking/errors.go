package booking

import "errors"

var (
	// ErrNotFound means no booking matches the id for this client.
	ErrNotFound = errors.New("booking not found")
	// ErrActiveBookingExists rejects a second future confirmed booking by
	// the same client with the same mentor.
	ErrActiveBookingExists = errors.New("client already has an active booking with this mentor")
	// ErrPastBooking rejects cancellation of a session that already started.
	ErrPastBooking = errors.New("cannot cancel a booking that already started")
	// ErrSlotTaken means another confirmed booking overlaps the requested
	// interval; the slot was grabbed between slot display and submission.
	ErrSlotTaken = errors.New("time slot is no longer available")
	// ErrServiceInactive rejects booking a service the mentor disabled.
	ErrServiceInactive = errors.New("service is not active")
)
