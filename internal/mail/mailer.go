package mail

import (
	"context"
	"fmt"

	"karma-light/internal/config"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outgoing email. HTML is optional; when set it is attached
// as a multipart alternative to the plain-text body.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single message and reports success or failure per call.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages over authenticated SMTP.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer creates a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPConfig, from string) (*SMTPMailer, error) {
	client, err := gomail.NewClient(
		cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: from}, nil
}

// Send delivers one message
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
