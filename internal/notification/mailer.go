package notification

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"dormwash/internal/config"
)

// Mailer sends transactional emails. Delivery is best-effort; a failed send
// never fails the request that triggered it.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, email string, bookingID int64, accessCode string) error
	SendBookingCancellation(ctx context.Context, email string, bookingID int64, refund int64) error
}

// DevConsoleMailer logs instead of sending, for local development.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) SendBookingConfirmation(_ context.Context, email string, bookingID int64, accessCode string) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] booking confirmation email=%s booking_id=%d access_code=%s", email, bookingID, accessCode)
	}
	return nil
}

func (m *DevConsoleMailer) SendBookingCancellation(_ context.Context, email string, bookingID int64, refund int64) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] booking cancellation email=%s booking_id=%d refund=%d", email, bookingID, refund)
	}
	return nil
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendBookingConfirmation(_ context.Context, email string, bookingID int64, accessCode string) error {
	subject := fmt.Sprintf("Laundry booking #%d confirmed", bookingID)
	body := fmt.Sprintf("Your laundry slot is booked. Use access code %s at the machine.", accessCode)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) SendBookingCancellation(_ context.Context, email string, bookingID int64, refund int64) error {
	subject := fmt.Sprintf("Laundry booking #%d cancelled", bookingID)
	body := fmt.Sprintf("Your booking was cancelled and %d credits were refunded to your wallet.", refund)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
