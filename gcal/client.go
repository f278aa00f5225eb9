// Package gcal is the boundary to Google Calendar. It owns every conversion
// between the API's UTC wire format and the application's civil timezone:
// intervals returned from FetchBusy are already in utils.AppLocation().
//
// Callers decide what to do with a failure. By policy the read path degrades
// to "no external data" and the write paths are best-effort, so a gateway
// error never blocks a local booking or cancellation.
package gcal

import (
	"context"
	"time"

	"github.com/mentortyme/backend/models"
)

// BusyPeriod is one occupied interval in a user's calendar, in local civil
// time. Intervals are half-open: [Start, End).
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}

// Client is the narrow contract the booking core talks to.
type Client interface {
	// FetchBusy returns the user's busy intervals over the full local day of
	// date. A user without a linked calendar yields an empty list and no
	// error.
	FetchBusy(ctx context.Context, user *models.User, date time.Time) ([]BusyPeriod, error)

	// CreateEvent inserts an event into the user's primary calendar and
	// returns its id. A user without a linked calendar yields "" and no
	// error.
	CreateEvent(ctx context.Context, user *models.User, start time.Time, durationMinutes int, summary, description string) (string, error)

	// DeleteEvent removes an event by its id, best-effort.
	DeleteEvent(ctx context.Context, user *models.User, eventID string) error
}
