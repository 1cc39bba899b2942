package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resumemailer/internal/domain"
)

type smtpConfigService struct {
	configs domain.SMTPConfigRepository
	factory MailerFactory
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewSMTPConfigService handles transport-identity onboarding: connectivity
// tests and activation. The dispatch core only uses configs this service has
// marked as successfully tested.
func NewSMTPConfigService(configs domain.SMTPConfigRepository, factory MailerFactory, timeout time.Duration, logger *slog.Logger) domain.SMTPConfigService {
	return &smtpConfigService{
		configs: configs,
		factory: factory,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Test verifies connectivity for the config and sends a self-addressed test
// mail, then persists the outcome on the record either way.
func (s *smtpConfigService) Test(ctx context.Context, id, userID string) error {
	cfg, err := s.configs.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	testErr := s.runTest(ctx, cfg)

	status := domain.TestStatusSuccess
	errorMessage := ""
	if testErr != nil {
		status = domain.TestStatusFailed
		errorMessage = testErr.Error()
	}
	if err := s.configs.UpdateTestResult(ctx, cfg.ID, status, errorMessage, s.now()); err != nil {
		s.logger.Warn("failed to persist smtp test result", "config_id", cfg.ID, "error", err)
	}

	if testErr != nil {
		return fmt.Errorf("smtp configuration test failed: %w", testErr)
	}
	return nil
}

func (s *smtpConfigService) runTest(ctx context.Context, cfg *domain.SMTPConfig) error {
	mailer := s.factory(cfg, s.timeout)
	if err := mailer.Verify(ctx); err != nil {
		return err
	}
	msg := &domain.Message{
		From:    domain.Address{Name: cfg.FromName, Email: cfg.FromEmail},
		To:      cfg.FromEmail,
		Subject: "SMTP Configuration Test - Resume Mailer",
		HTML: fmt.Sprintf(`<h2>SMTP Configuration Test Successful!</h2>
<p>Your SMTP configuration <strong>%s</strong> is working correctly.</p>
<ul>
<li><strong>Host:</strong> %s</li>
<li><strong>Port:</strong> %d</li>
<li><strong>From:</strong> %s &lt;%s&gt;</li>
</ul>
<p>You can now use this configuration to send emails through Resume Mailer.</p>`,
			cfg.Name, cfg.Host, cfg.Port, cfg.FromName, cfg.FromEmail),
	}
	return mailer.Send(ctx, msg)
}

// Activate marks the config active for its owner; every other config owned by
// the same user is deactivated in the same operation.
func (s *smtpConfigService) Activate(ctx context.Context, id, userID string) error {
	return s.configs.Activate(ctx, id, userID)
}
