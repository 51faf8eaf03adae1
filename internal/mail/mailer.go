// Package mail sends transactional email over SMTP.  Registration depends
// on it synchronously (the verification message must go out before the
// account commit); booking notifications arrive through the queue consumer
// and are fire-and-forget.
package mail

import (
	"fmt"
	"log"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/kmadriaga/resort-booking-api/internal/config"
)

// Mailer wraps an SMTP client with the configured sender identity.  A nil
// Mailer is valid and drops every message, which keeps local development
// working without a relay.
type Mailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

// New builds a Mailer from config, or nil when no SMTP host is configured.
func New(cfg *config.Config) (*Mailer, error) {
	if cfg.SMTPHost == "" {
		return nil, nil
	}
	c, err := gomail.NewClient(cfg.SMTPHost,
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTPUser),
		gomail.WithPassword(cfg.SMTPPass),
	)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return &Mailer{client: c, from: cfg.MailFrom, fromName: cfg.MailFromName}, nil
}

func (m *Mailer) send(to, toName, subject, body string) error {
	if m == nil {
		log.Printf("mail disabled, dropping %q to %s", subject, to)
		return nil
	}
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return err
	}
	if err := msg.AddToFormat(toName, to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return m.client.DialAndSend(msg)
}

// SendVerification delivers the email verification link issued at
// registration.  Callers treat a failure as fatal for the registration.
func (m *Mailer) SendVerification(to, name, verifyURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome! Please confirm your email address by opening the link below:\n\n%s\n\nIf you did not create an account, you can ignore this message.\n",
		name, verifyURL)
	return m.send(to, name, "Verify your email address", body)
}

// SendBookingConfirmed notifies a customer that staff confirmed a booking.
func (m *Mailer) SendBookingConfirmed(to, name, kind, summary string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nGood news! Your %s booking has been confirmed.\n\n%s\n\nWe look forward to seeing you.\n",
		name, kind, summary)
	return m.send(to, name, fmt.Sprintf("Your %s booking is confirmed", kind), body)
}

// SendBookingCancelled notifies a customer that a booking was cancelled.
func (m *Mailer) SendBookingCancelled(to, name, kind, summary string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s booking has been cancelled.\n\n%s\n\nIf this was unexpected, please contact the front desk.\n",
		name, kind, summary)
	return m.send(to, name, fmt.Sprintf("Your %s booking was cancelled", kind), body)
}

// IsAuthError reports whether an SMTP failure looks like rejected
// credentials rather than a transient delivery problem.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "535") || strings.Contains(s, "auth")
}
