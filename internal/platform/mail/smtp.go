// Package mail provides the outbound notification transport. SMTPNotifier
// delivers plain-text messages over SMTP; LogNotifier is a drop-in stand-in
// for environments without a mail server.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/smarttask/smarttask-api/internal/config"
	"github.com/smarttask/smarttask-api/internal/service"
)

// SMTPNotifier sends notifications as plain-text email via SMTP.
type SMTPNotifier struct {
	client *gomail.Client
	from   string
	log    *slog.Logger
}

var _ service.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a notifier from the mail configuration.
// Authentication is enabled only when a username is configured.
func NewSMTPNotifier(cfg config.MailConfig, log *slog.Logger) (*SMTPNotifier, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPNotifier{
		client: client,
		from:   cfg.FromAddress,
		log:    log.With(slog.String("component", "smtp_notifier")),
	}, nil
}

// Send implements service.Notifier.
func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", recipient, err)
	}

	n.log.Debug("mail sent", "recipient", recipient, "subject", subject)
	return nil
}

// LogNotifier records notifications to the log instead of delivering them.
// It is used when no SMTP host is configured.
type LogNotifier struct {
	log *slog.Logger
}

var _ service.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With(slog.String("component", "log_notifier"))}
}

// Send implements service.Notifier by logging the message.
func (n *LogNotifier) Send(_ context.Context, recipient, subject, _ string) error {
	n.log.Info("notification (mail disabled)", "recipient", recipient, "subject", subject)
	return nil
}

// NewNotifier returns an SMTPNotifier when a host is configured and a
// LogNotifier otherwise.
func NewNotifier(cfg config.MailConfig, log *slog.Logger) (service.Notifier, error) {
	if cfg.Host == "" {
		return NewLogNotifier(log), nil
	}
	return NewSMTPNotifier(cfg, log)
}
