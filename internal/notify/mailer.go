package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFromName is used when no sender display name is configured.
const DefaultFromName = "Hospital Management System"

// AppointmentConfirmation carries the fields of a booking confirmation.
// Date and Time are preformatted by the caller.
type AppointmentConfirmation struct {
	To             string
	PatientName    string
	DoctorName     string
	Specialization string
	Date           string
	Time           string
	Description    string
	AppointmentID  string
}

// PasswordReset carries a freshly issued reset token.
type PasswordReset struct {
	To       string
	Token    string
	ValidFor time.Duration
}

// Mailer renders notifications into emails and hands them to an EmailSender.
type Mailer struct {
	sender EmailSender
	logger zerolog.Logger
}

func NewMailer(sender EmailSender, logger zerolog.Logger) *Mailer {
	return &Mailer{sender: sender, logger: logger}
}

// SendAppointmentConfirmation emails a booking confirmation to the patient.
func (m *Mailer) SendAppointmentConfirmation(ctx context.Context, c AppointmentConfirmation) error {
	if c.To == "" {
		return fmt.Errorf("notify: confirmation has no recipient")
	}
	text, html, err := render(confirmationTextTmpl, confirmationHTMLTmpl, c)
	if err != nil {
		return err
	}
	return m.send(ctx, EmailMessage{
		To:      c.To,
		ToName:  c.PatientName,
		Subject: "Appointment Confirmation - Dr. " + c.DoctorName,
		Body:    text,
		HTML:    html,
	})
}

// SendPasswordReset emails a reset token.
func (m *Mailer) SendPasswordReset(ctx context.Context, r PasswordReset) error {
	if r.To == "" {
		return fmt.Errorf("notify: password reset has no recipient")
	}
	data := struct {
		Token   string
		Minutes int
	}{Token: r.Token, Minutes: int(r.ValidFor.Minutes())}

	text, html, err := render(resetTextTmpl, resetHTMLTmpl, data)
	if err != nil {
		return err
	}
	return m.send(ctx, EmailMessage{
		To:      r.To,
		Subject: "Password Reset Request",
		Body:    text,
		HTML:    html,
	})
}

func (m *Mailer) send(ctx context.Context, msg EmailMessage) error {
	if m.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return err
	}
	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("notification dispatched")
	return nil
}
