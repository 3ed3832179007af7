// Package mailer delivers outbound email. The welcome email on the
// submission path is best-effort: callers log failures and never fail
// the primary operation on a send error.
package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"gatherly/pkg/logger"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one email and returns a provider delivery id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type Config struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

var (
	initOnce      sync.Once
	defaultSender Sender
)

// Init sets up the process-wide sender. It is idempotent: only the
// first call takes effect. Without an API key the sender degrades to a
// logging no-op so submission flows keep working in environments where
// email is not configured.
func Init(cfg Config, log *logger.Logger) {
	initOnce.Do(func() {
		if cfg.SendGridAPIKey == "" {
			log.Warn("no SendGrid API key configured, email delivery disabled")
			defaultSender = &StubSender{log: log}
			return
		}
		defaultSender = NewSendGridSender(cfg, log)
		log.Info("SendGrid email sender initialized", "from", cfg.FromEmail)
	})
}

// Default returns the process-wide sender. Init must have run first;
// a nil return means the process skipped initialization entirely.
func Default() Sender {
	return defaultSender
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logger.Logger
}

func NewSendGridSender(cfg Config, log *logger.Logger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) (string, error) {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, html)

	response, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return "", fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	var deliveryID string
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		deliveryID = ids[0]
	}
	s.log.Info("email sent", "to", msg.To, "subject", msg.Subject, "delivery_id", deliveryID)
	return deliveryID, nil
}

// StubSender logs instead of sending. Used when email is unconfigured
// and in tests.
type StubSender struct {
	log *logger.Logger
}

func (s *StubSender) Send(_ context.Context, msg Message) (string, error) {
	s.log.Info("stub email sender: would send", "to", msg.To, "subject", msg.Subject)
	return "", nil
}
