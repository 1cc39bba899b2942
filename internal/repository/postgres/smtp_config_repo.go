package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resumemailer/internal/domain"
)

const smtpConfigColumns = `
	id, user_id, name, host, port, secure, username, password, from_email,
	from_name, is_active, is_default, last_tested, test_status,
	test_error_message, created_at, updated_at`

type smtpConfigRepository struct {
	DB *sql.DB
}

func NewSMTPConfigRepository(db *sql.DB) domain.SMTPConfigRepository {
	return &smtpConfigRepository{DB: db}
}

func (r *smtpConfigRepository) Create(ctx context.Context, c *domain.SMTPConfig) error {
	query := `
		INSERT INTO smtp_configs (
			user_id, name, host, port, secure, username, password, from_email,
			from_name, is_active, is_default, test_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Host, c.Port, c.Secure, c.Username, c.Password,
		c.FromEmail, c.FromName, c.IsActive, c.IsDefault, c.TestStatus,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *smtpConfigRepository) GetByID(ctx context.Context, id, userID string) (*domain.SMTPConfig, error) {
	query := `SELECT ` + smtpConfigColumns + ` FROM smtp_configs WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

func (r *smtpConfigRepository) GetActive(ctx context.Context, userID string) (*domain.SMTPConfig, error) {
	query := `SELECT ` + smtpConfigColumns + ` FROM smtp_configs WHERE user_id = $1 AND is_active = true`
	return r.getOne(ctx, query, userID)
}

func (r *smtpConfigRepository) getOne(ctx context.Context, query string, args ...any) (*domain.SMTPConfig, error) {
	c := &domain.SMTPConfig{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Host, &c.Port, &c.Secure, &c.Username,
		&c.Password, &c.FromEmail, &c.FromName, &c.IsActive, &c.IsDefault,
		&c.LastTested, &c.TestStatus, &c.TestErrorMessage, &c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSMTPConfigNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *smtpConfigRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SMTPConfig, error) {
	query := `SELECT ` + smtpConfigColumns + ` FROM smtp_configs WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*domain.SMTPConfig
	for rows.Next() {
		c := &domain.SMTPConfig{}
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Host, &c.Port, &c.Secure, &c.Username,
			&c.Password, &c.FromEmail, &c.FromName, &c.IsActive, &c.IsDefault,
			&c.LastTested, &c.TestStatus, &c.TestErrorMessage, &c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// Activate flips the given config active and deactivates the user's others in
// one transaction, preserving the at-most-one-active invariant.
func (r *smtpConfigRepository) Activate(ctx context.Context, id, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE smtp_configs SET is_active = false WHERE user_id = $1 AND is_active = true`,
		userID,
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE smtp_configs SET is_active = true, updated_at = $3 WHERE id = $1 AND user_id = $2`,
		id, userID, time.Now(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSMTPConfigNotFound
	}
	return tx.Commit()
}

func (r *smtpConfigRepository) UpdateTestResult(ctx context.Context, id, status, errorMessage string, testedAt time.Time) error {
	query := `
		UPDATE smtp_configs
		SET test_status = $2, test_error_message = $3, last_tested = $4, updated_at = $4
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, status, errorMessage, testedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSMTPConfigNotFound
	}
	return nil
}

func (r *smtpConfigRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM smtp_configs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrSMTPConfigNotFound
	}
	return nil
}
