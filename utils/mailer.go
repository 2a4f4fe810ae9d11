package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"hotel-booking/config"
	"hotel-booking/logger"
)

// Mailer sends plain-text mail over SMTP. Without SMTP settings it only logs
// the message, which is what development and tests use.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	to, subject = safe(to), safe(subject)

	if !m.cfg.Enabled() {
		logger.FromContext(ctx).Info().
			Str("to", MaskEmail(to)).
			Str("subject", subject).
			Str("body", body).
			Msg("[MOCK EMAIL]")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	logger.FromContext(ctx).Info().Str("to", MaskEmail(to)).Str("subject", subject).Msg("email sent")
	return nil
}
