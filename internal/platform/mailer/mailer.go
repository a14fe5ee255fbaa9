// Package mailer provides SMTP email delivery for transactional mail
// (welcome messages, verification links). Delivery is disabled cleanly
// when no SMTP credentials are configured.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/lanternhq/lantern-api/internal/config"
)

// Common mailer errors
var (
	// ErrNotConfigured indicates SMTP credentials are absent; callers
	// should treat email delivery as disabled.
	ErrNotConfigured = errors.New("email credentials not configured")

	// ErrInvalidMessage indicates a message is missing required fields.
	ErrInvalidMessage = errors.New("invalid email message")
)

// Message is one outbound email. HTMLBody is required; PlainBody is an
// optional alternative part for non-HTML clients.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Validate checks the message has the fields delivery requires.
func (m Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if m.HTMLBody == "" {
		return fmt.Errorf("%w: HTML body is required", ErrInvalidMessage)
	}
	return nil
}

// Mailer sends email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer implements Mailer over an authenticated SMTP connection.
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
	logger   *slog.Logger
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// New creates an SMTPMailer from configuration. Returns
// ErrNotConfigured when credentials are missing.
func New(cfg config.EmailConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.User == "" || cfg.Password == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &SMTPMailer{
		client:   client,
		from:     from,
		fromName: cfg.FromName,
		logger:   logger,
	}, nil
}

// Send delivers one message. The context bounds the SMTP dial and send.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	out := mail.NewMsg()
	if err := out.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	out.Subject(msg.Subject)

	if msg.PlainBody != "" {
		out.SetBodyString(mail.TypeTextPlain, msg.PlainBody)
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	} else {
		out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
