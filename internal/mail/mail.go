// Package mail sends transactional HTML email through an SMTP relay.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outgoing email. From defaults to the sender's account
// address when empty.
type Message struct {
	To      string
	Subject string
	HTML    string
	From    string
}

// SMTPConfig holds the relay connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// dialer is the part of *gomail.Client the Sender uses.
type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Sender delivers Messages over SMTP.
type Sender struct {
	client dialer
	from   string
	log    *slog.Logger
}

// NewSender connects a Sender to the relay described by cfg. Port 465 uses
// implicit TLS; any other port requires STARTTLS.
func NewSender(cfg SMTPConfig, log *slog.Logger) (*Sender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail.NewSender: %w", err)
	}
	return newSender(client, cfg.Username, log), nil
}

func newSender(client dialer, from string, log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}
	return &Sender{client: client, from: from, log: log}
}

// Send delivers m and returns the generated Message-ID.
func (s *Sender) Send(ctx context.Context, m Message) (string, error) {
	if strings.TrimSpace(m.To) == "" {
		return "", errors.New("mail.Sender.Send: recipient is required")
	}
	from := m.From
	if from == "" {
		from = s.from
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return "", fmt.Errorf("mail.Sender.Send: from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return "", fmt.Errorf("mail.Sender.Send: to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextHTML, m.HTML)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "email send failed", "to", m.To, "error", err)
		return "", fmt.Errorf("mail.Sender.Send: %w", err)
	}

	var id string
	if ids := msg.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		id = ids[0]
	}
	s.log.InfoContext(ctx, "email sent", "to", m.To, "message_id", id)
	return id, nil
}
