// internal/adapters/mail/mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
)

// sender is the part of *gomail.Dialer the mailer uses
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implements ports.Mailer over SMTP. When disabled it logs each message instead.
type SMTPMailer struct {
	dialer  sender
	from    string
	enabled bool
	logger  *slog.Logger
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new mailer from the mail configuration
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  logger.With(slog.String("component", "mailer")),
	}
}

// Send delivers email to every recipient in a single message
func (m *SMTPMailer) Send(ctx context.Context, email ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return errors.New("email has no recipients")
	}

	if !m.enabled {
		m.logger.InfoContext(ctx, "mail disabled, not sending",
			slog.Any("to", email.To),
			slog.String("subject", email.Subject),
			slog.String("body", email.TextBody))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		msg.AddAlternative("text/html", email.HTMLBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.Int("recipients", len(email.To)),
		slog.String("subject", email.Subject))
	return nil
}
