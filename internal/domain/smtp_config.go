package domain

import (
	"context"
	"errors"
	"time"
)

var ErrSMTPConfigNotFound = errors.New("smtp configuration not found")

// Test status values for an SMTPConfig connectivity check.
const (
	TestStatusPending = "pending"
	TestStatusSuccess = "success"
	TestStatusFailed  = "failed"
)

// SMTPConfig is a transport identity: a named outbound mail server
// configuration owned by one user. At most one config per user is active at a
// time; activation enforces this. The dispatch core only trusts a config whose
// TestStatus records a prior successful connectivity check.
type SMTPConfig struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Name             string     `json:"name"`
	Host             string     `json:"host"`
	Port             int        `json:"port"`
	Secure           bool       `json:"secure"`
	Username         string     `json:"username"`
	Password         string     `json:"-"`
	FromEmail        string     `json:"from_email"`
	FromName         string     `json:"from_name"`
	IsActive         bool       `json:"is_active"`
	IsDefault        bool       `json:"is_default"`
	LastTested       *time.Time `json:"last_tested,omitempty"`
	TestStatus       string     `json:"test_status"`
	TestErrorMessage string     `json:"test_error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Verified reports whether the config passed its most recent connectivity
// test and may be used for dispatch.
func (c *SMTPConfig) Verified() bool {
	return c.TestStatus == TestStatusSuccess
}

// SMTPConfigService handles transport-identity onboarding: connectivity
// testing and activation.
type SMTPConfigService interface {
	// Test verifies connectivity for the config, sends a self-addressed test
	// mail, and persists the outcome on the record.
	Test(ctx context.Context, id, userID string) error
	Activate(ctx context.Context, id, userID string) error
}

// SMTPConfigRepository is the persistence port for transport identities.
type SMTPConfigRepository interface {
	Create(ctx context.Context, c *SMTPConfig) error
	GetByID(ctx context.Context, id, userID string) (*SMTPConfig, error)
	// GetActive returns the user's active config, or ErrSMTPConfigNotFound
	// when none is configured.
	GetActive(ctx context.Context, userID string) (*SMTPConfig, error)
	ListByUser(ctx context.Context, userID string) ([]*SMTPConfig, error)
	// Activate marks the given config active and deactivates every other
	// config owned by the same user.
	Activate(ctx context.Context, id, userID string) error
	UpdateTestResult(ctx context.Context, id, status, errorMessage string, testedAt time.Time) error
	Delete(ctx context.Context, id, userID string) error
}
