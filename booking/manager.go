// Package booking owns the booking lifecycle: creation with its duplicate
// and overlap guards, cancellation, and the lazy confirmed→completed sweep.
// Google Calendar calls around the lifecycle are strictly best-effort; their
// failure never fails the local operation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mentortyme/backend/gcal"
	"github.com/mentortyme/backend/models"
)

type Manager struct {
	db  *gorm.DB
	cal gcal.Client
}

func NewManager(db *gorm.DB, cal gcal.Client) *Manager {
	return &Manager{db: db, cal: cal}
}

// Create books a slot of the service for the client. The note is truncated
// to models.NoteMaxLen and the service price is snapshotted into the booking.
//
// Calendar events are attempted independently for the mentor and the client;
// either side failing only costs that side its event. The overlap check and
// the insert run in one transaction holding a per-mentor advisory lock on
// Postgres, so two concurrent requests for the same slot cannot both land.
func (m *Manager) Create(ctx context.Context, client *models.Profile, service *models.Service, start time.Time, note string) (*models.Booking, error) {
	if !service.IsActive {
		return nil, ErrServiceInactive
	}

	var mentor models.Profile
	if err := m.db.Preload("User").First(&mentor, service.MentorID).Error; err != nil {
		return nil, err
	}
	var clientUser models.User
	if err := m.db.First(&clientUser, client.UserID).Error; err != nil {
		return nil, err
	}

	// One active booking per client per mentor: reject while a future
	// confirmed session exists.
	var active int64
	if err := m.db.Model(&models.Booking{}).
		Where("client_id = ? AND mentor_id = ? AND status = ? AND start_time >= ?",
			client.ID, mentor.ID, models.StatusConfirmed, time.Now()).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrActiveBookingExists
	}

	b := models.NewBooking(*client, mentor, *service, start, note)

	// Best-effort calendar events, each side independent of the other.
	summary := fmt.Sprintf("%s - %s", service.Title, clientUser.Name)
	description := fmt.Sprintf("Client: %s\nEmail: %s\n%s", clientUser.Name, clientUser.Email, b.Note)
	if id, err := m.cal.CreateEvent(ctx, &mentor.User, start, service.Duration, summary, description); err != nil {
		log.Printf("gcal: create mentor event failed: %v", err)
	} else {
		b.GoogleEventID = id
	}
	clientSummary := fmt.Sprintf("%s - %s", service.Title, mentor.User.Name)
	clientDescription := fmt.Sprintf("Mentor: %s\nService: %s", mentor.User.Name, service.Title)
	if id, err := m.cal.CreateEvent(ctx, &clientUser, start, service.Duration, clientSummary, clientDescription); err != nil {
		log.Printf("gcal: create client event failed: %v", err)
	} else {
		b.ClientGoogleEventID = id
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		// A free slot has no row yet, so a row lock cannot guard it. The
		// advisory lock serializes booking inserts per mentor for the
		// lifetime of the transaction; sqlite serializes writers on its own.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(mentor.ID)).Error; err != nil {
				return err
			}
		}

		// Re-check the interval against confirmed bookings inside the
		// transaction; slot computation ran on an older snapshot.
		var conflicts []models.Booking
		if err := tx.Where("mentor_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			mentor.ID, models.StatusConfirmed, b.EndTime, b.StartTime).
			Limit(1).Find(&conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrSlotTaken
		}
		return tx.Create(b).Error
	})
	if err != nil {
		// The local booking did not happen; clean up whatever events were
		// created. Orphans left by a failed delete are acceptable.
		m.deleteEvents(ctx, b, &mentor.User, &clientUser)
		return nil, err
	}

	return b, nil
}

// Cancel removes the client's booking and its calendar events. The record is
// deleted regardless of how the event deletions went.
func (m *Manager) Cancel(ctx context.Context, client *models.Profile, bookingID uint) error {
	var b models.Booking
	err := m.db.Preload("Mentor.User").Preload("Client.User").
		Where("id = ? AND client_id = ?", bookingID, client.ID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if b.StartTime.Before(time.Now()) {
		return ErrPastBooking
	}

	m.deleteEvents(ctx, &b, &b.Mentor.User, &b.Client.User)

	return m.db.Delete(&b).Error
}

// SweepExpired reclassifies every confirmed booking whose end time has
// passed to completed. Idempotent; listing paths call it first so active and
// history views match wall-clock time.
func (m *Manager) SweepExpired() error {
	return m.db.Model(&models.Booking{}).
		Where("status = ? AND end_time < ?", models.StatusConfirmed, time.Now()).
		Update("status", models.StatusCompleted).Error
}

// deleteEvents best-effort removes both sides' calendar events. Failures are
// logged and swallowed.
func (m *Manager) deleteEvents(ctx context.Context, b *models.Booking, mentorUser, clientUser *models.User) {
	if b.GoogleEventID != "" {
		if err := m.cal.DeleteEvent(ctx, mentorUser, b.GoogleEventID); err != nil {
			log.Printf("gcal: delete mentor event %s failed: %v", b.GoogleEventID, err)
		}
	}
	if b.ClientGoogleEventID != "" {
		if err := m.cal.DeleteEvent(ctx, clientUser, b.ClientGoogleEventID); err != nil {
			log.Printf("gcal: delete client event %s failed: %v", b.ClientGoogleEventID, err)
		}
	}
}
