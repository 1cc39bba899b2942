package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"resumemailer/internal/domain"
)

// SESConfig holds credentials for the AWS SES provider.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Config selects and configures the system-default mail transport.
// Provider "smtp" uses a plain SMTP server, "ses" uses AWS SES, "noop" or
// unknown logs instead of sending.
type Config struct {
	Provider string

	SMTPHost     string
	SMTPPort     int
	SMTPSecure   bool
	SMTPUsername string
	SMTPPassword string

	SES SESConfig

	// Timeout bounds dial, greeting, and send against the transport.
	Timeout time.Duration
}

// DefaultTimeout is applied when a config carries no timeout. Bad transport
// configs must fail within a bounded window instead of hanging a batch.
const DefaultTimeout = 10 * time.Second

// NewMailer creates the system-default mailer from config.
func NewMailer(cfg Config) (domain.Mailer, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSecure, cfg.SMTPUsername, cfg.SMTPPassword, timeout), nil
	case "ses":
		return newSESMailer(cfg.SES)
	case "noop":
		return &noopMailer{}, nil
	default:
		log.Printf("[MAILER] Unknown email provider %q, using noop", cfg.Provider)
		return &noopMailer{}, nil
	}
}

// FromSMTPConfig builds a mailer for a user's own transport identity. It is
// the MailerFactory used by the transport resolver and the onboarding test.
func FromSMTPConfig(cfg *domain.SMTPConfig, timeout time.Duration) domain.Mailer {
	return NewSMTPMailer(cfg.Host, cfg.Port, cfg.Secure, cfg.Username, cfg.Password, timeout)
}

type smtpMailer struct {
	dialer  *gomail.Dialer
	timeout time.Duration
}

// NewSMTPMailer returns a Mailer that delivers through the given SMTP server.
// All operations are bounded by timeout.
func NewSMTPMailer(host string, port int, secure bool, username, password string, timeout time.Duration) domain.Mailer {
	d := gomail.NewDialer(host, port, username, password)
	d.SSL = secure
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &smtpMailer{dialer: d, timeout: timeout}
}

func (s *smtpMailer) Send(ctx context.Context, msg *domain.Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From.Email, msg.From.Name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	for _, a := range msg.Attachments {
		m.Attach(a.Path, gomail.Rename(a.Filename))
	}
	return s.withTimeout(ctx, func() error {
		return s.dialer.DialAndSend(m)
	})
}

func (s *smtpMailer) Verify(ctx context.Context) error {
	return s.withTimeout(ctx, func() error {
		conn, err := s.dialer.Dial()
		if err != nil {
			return err
		}
		return conn.Close()
	})
}

// withTimeout runs op with a hard deadline so a hung SMTP connection cannot
// stall the caller indefinitely.
func (s *smtpMailer) withTimeout(ctx context.Context, op func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- op() }()
	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp operation aborted: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

type noopMailer struct{}

func (n *noopMailer) Send(ctx context.Context, msg *domain.Message) error {
	log.Printf("[MAILER] Email would be sent (noop) to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

func (n *noopMailer) Verify(ctx context.Context) error { return nil }
