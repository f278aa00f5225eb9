package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mentortyme/backend/booking"
	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/utils"
)

// StartCronJobs runs the periodic booking maintenance: the expired-booking
// sweep (listings also run it inline; this keeps statuses fresh during quiet
// periods) and session reminder emails.
func StartCronJobs(manager *booking.Manager) {
	c := cron.New()

	if _, err := c.AddFunc("@every 5m", func() {
		if err := manager.SweepExpired(); err != nil {
			log.Printf("Failed to sweep expired bookings: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to add sweep cron job: %v", err)
	}

	if _, err := c.AddFunc("* * * * *", sendSessionReminders); err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sendSessionReminders mails clients whose session starts in about an hour.
func sendSessionReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.DB.Preload("Client.User").Preload("Mentor.User").Preload("Service").
		Where("status = ? AND start_time BETWEEN ? AND ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	for _, b := range bookings {
		if err := sendReminderEmail(&b); err != nil {
			log.Printf("Failed to send reminder for booking %d: %v", b.ID, err)
			continue
		}
		log.Printf("Sent reminder for booking %d to %s", b.ID, b.Client.User.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(b *models.Booking) error {
	title := "Mentoring session"
	if b.Service != nil {
		title = b.Service.Title
	}

	subject := fmt.Sprintf("Reminder: Upcoming Session - %s", title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your session scheduled in one hour.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Mentor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>If you need to cancel, please do so before the session starts.</p>
	`, b.Client.User.Name, title, b.Mentor.User.Name,
		b.StartTime.Format("2006-01-02 15:04"),
		b.EndTime.Format("2006-01-02 15:04"))

	return utils.SendEmail(b.Client.User.Email, subject, body)
}
