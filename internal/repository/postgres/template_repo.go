package postgres

import (
	"context"
	"database/sql"
	"errors"

	"resumemailer/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{DB: db}
}

func (r *templateRepository) Create(ctx context.Context, t *domain.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (user_id, name, subject, html_content, plain_text, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.UserID, t.Name, t.Subject, t.HTMLContent, t.PlainText, t.IsDefault, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	query := `
		SELECT id, user_id, name, subject, html_content, plain_text, is_default, created_at, updated_at
		FROM email_templates
		WHERE id = $1
	`
	t := &domain.EmailTemplate{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Subject, &t.HTMLContent, &t.PlainText,
		&t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) ListByUser(ctx context.Context, userID string) ([]*domain.EmailTemplate, error) {
	query := `
		SELECT id, user_id, name, subject, html_content, plain_text, is_default, created_at, updated_at
		FROM email_templates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.EmailTemplate
	for rows.Next() {
		t := &domain.EmailTemplate{}
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Subject, &t.HTMLContent, &t.PlainText,
			&t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
