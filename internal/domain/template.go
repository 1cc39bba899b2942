package domain

import (
	"context"
	"errors"
	"time"
)

var ErrTemplateNotFound = errors.New("template not found")

// EmailTemplate is a stored message template. HTMLContent carries the body
// markup with placeholder tokens; PlainText is an optional plain-text
// override. Templates are immutable once selected for a send.
type EmailTemplate struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	PlainText   string    `json:"plain_text,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplateRepository is the persistence port for templates.
type TemplateRepository interface {
	Create(ctx context.Context, t *EmailTemplate) error
	GetByID(ctx context.Context, id string) (*EmailTemplate, error)
	ListByUser(ctx context.Context, userID string) ([]*EmailTemplate, error)
}
