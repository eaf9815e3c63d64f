// internal/adapters/mail/mailer_internal_test.go
package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func TestSMTPMailer_Send(t *testing.T) {
	email := ports.Email{
		To:       []string{"a@fleet.io", "b@fleet.io"},
		Subject:  "Low stock: Chain kit (CK-520)",
		TextBody: "Current stock: 1",
	}

	tests := []struct {
		name          string
		enabled       bool
		email         ports.Email
		sendErr       error
		expectedSent  int
		errorContains string
	}{
		{
			name:         "sends_when_enabled",
			enabled:      true,
			email:        email,
			expectedSent: 1,
		},
		{
			name:    "logs_when_disabled",
			enabled: false,
			email:   email,
		},
		{
			name:          "rejects_empty_recipients",
			enabled:       true,
			email:         ports.Email{Subject: "x"},
			errorContains: "no recipients",
		},
		{
			name:          "wraps_smtp_error",
			enabled:       true,
			email:         email,
			sendErr:       errors.New("535 authentication failed"),
			errorContains: "failed to send email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingSender{err: tt.sendErr}
			m := &SMTPMailer{
				dialer:  s,
				from:    "motofleet@fleet.io",
				enabled: tt.enabled,
				logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			}

			err := m.Send(context.Background(), tt.email)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			require.Len(t, s.sent, tt.expectedSent)
			if tt.expectedSent == 0 {
				return
			}

			msg := s.sent[0]
			assert.Equal(t, []string{"motofleet@fleet.io"}, msg.GetHeader("From"))
			assert.Equal(t, tt.email.To, msg.GetHeader("To"))

			var buf bytes.Buffer
			_, err = msg.WriteTo(&buf)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "Current stock: 1")
		})
	}
}

func TestSMTPMailer_Send_CancelledContext(t *testing.T) {
	m := &SMTPMailer{dialer: &recordingSender{}, enabled: true, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, ports.Email{To: []string{"a@fleet.io"}})
	assert.ErrorIs(t, err, context.Canceled)
}
