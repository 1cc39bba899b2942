package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resumemailer/internal/domain"
)

// MailerFactory builds a Mailer from a user's SMTP configuration. Injected so
// tests can observe which transport was chosen without dialing anything.
type MailerFactory func(cfg *domain.SMTPConfig, timeout time.Duration) domain.Mailer

type transportResolver struct {
	smtpRepo      domain.SMTPConfigRepository
	defaultMailer domain.Mailer
	defaultFrom   string
	timeout       time.Duration
	factory       MailerFactory
	logger        *slog.Logger
}

// NewTransportResolver returns a TransportResolver that prefers the sender's
// verified active SMTP configuration and falls back to the system default
// transport otherwise. defaultFrom is the system default from-address paired
// with the sender's own name when the fallback applies.
func NewTransportResolver(smtpRepo domain.SMTPConfigRepository, defaultMailer domain.Mailer, defaultFrom string, timeout time.Duration, factory MailerFactory, logger *slog.Logger) domain.TransportResolver {
	return &transportResolver{
		smtpRepo:      smtpRepo,
		defaultMailer: defaultMailer,
		defaultFrom:   defaultFrom,
		timeout:       timeout,
		factory:       factory,
		logger:        logger,
	}
}

// Resolve picks the transport and from-address for one batch. It never
// returns an error: a missing, unverified, or unreadable configuration all
// degrade to the default transport.
func (r *transportResolver) Resolve(ctx context.Context, user *domain.User) (domain.Mailer, domain.Address) {
	cfg, err := r.smtpRepo.GetActive(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrSMTPConfigNotFound) {
			r.logger.Warn("smtp config lookup failed, using default transport",
				"user_id", user.ID, "error", err)
		}
		return r.fallback(user)
	}
	if !cfg.Verified() {
		return r.fallback(user)
	}
	return r.factory(cfg, r.timeout), domain.Address{Name: cfg.FromName, Email: cfg.FromEmail}
}

func (r *transportResolver) fallback(user *domain.User) (domain.Mailer, domain.Address) {
	return r.defaultMailer, domain.Address{Name: user.Name, Email: r.defaultFrom}
}
