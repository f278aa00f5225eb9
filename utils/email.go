package utils

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"gopkg.in/gomail.v2"
)

// ErrMailNotConfigured is returned when no SMTP relay is set up. Booking and
// reminder mail is best-effort; callers log this and move on.
var ErrMailNotConfigured = errors.New("mail is not configured")

var (
	mailOnce sync.Once
	dialer   *gomail.Dialer
	mailFrom string
)

// SendEmail delivers an HTML mail through the SMTP relay configured via
// SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and MAIL_FROM. The relay config
// is read once on first use.
func SendEmail(to, subject, body string) error {
	mailOnce.Do(initMailer)
	if dialer == nil {
		return ErrMailNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", mailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return dialer.DialAndSend(m)
}

func initMailer() {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	user := os.Getenv("SMTP_USER")
	mailFrom = os.Getenv("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = user
	}

	dialer = gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS"))
}
