// Package mail sends transactional email over SMTP. Delivery is
// best-effort everywhere: callers log failures and move on, they never roll
// back the write that triggered the message.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"github.com/rs/zerolog"
)

// Mailer is the delivery contract handlers depend on.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer delivers through a single SMTP account (STARTTLS).
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: build client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// NopMailer is used when no SMTP credentials are configured. Every send is
// logged and dropped.
type NopMailer struct {
	Logger zerolog.Logger
}

func (m NopMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Logger.Warn().Str("to", to).Str("subject", subject).Msg("smtp not configured, email dropped")
	return nil
}
