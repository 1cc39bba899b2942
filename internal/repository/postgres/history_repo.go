package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resumemailer/internal/domain"
)

const historyColumns = `
	id, user_id, company_id, resume_id, template_id, status, sent_at,
	error_message, email, company_name, position`

type historyRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) domain.HistoryRepository {
	return &historyRepository{DB: db}
}

func (r *historyRepository) Create(ctx context.Context, h *domain.EmailHistory) error {
	query := `
		INSERT INTO email_history (
			user_id, company_id, resume_id, template_id, status, sent_at,
			error_message, email, company_name, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		h.UserID, h.CompanyID, h.ResumeID, h.TemplateID, h.Status, h.SentAt,
		h.ErrorMessage, h.Email, h.CompanyName, h.Position,
	).Scan(&h.ID)
}

func (r *historyRepository) GetByID(ctx context.Context, id, userID string) (*domain.EmailHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM email_history WHERE id = $1 AND user_id = $2`
	h := &domain.EmailHistory{}
	err := r.DB.QueryRowContext(ctx, query, id, userID).Scan(
		&h.ID, &h.UserID, &h.CompanyID, &h.ResumeID, &h.TemplateID, &h.Status,
		&h.SentAt, &h.ErrorMessage, &h.Email, &h.CompanyName, &h.Position,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHistoryNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *historyRepository) List(ctx context.Context, userID string, filter domain.HistoryFilter) ([]*domain.EmailHistory, int, error) {
	where := ` WHERE user_id = $1`
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND sent_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND sent_at <= $%d", len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_history`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + historyColumns + ` FROM email_history` + where +
		fmt.Sprintf(" ORDER BY sent_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*domain.EmailHistory
	for rows.Next() {
		h := &domain.EmailHistory{}
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.CompanyID, &h.ResumeID, &h.TemplateID, &h.Status,
			&h.SentAt, &h.ErrorMessage, &h.Email, &h.CompanyName, &h.Position,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, h)
	}
	return records, total, rows.Err()
}

func (r *historyRepository) UpdateResult(ctx context.Context, id, status, errorMessage string, sentAt time.Time) error {
	query := `
		UPDATE email_history
		SET status = $2, error_message = $3, sent_at = $4
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, status, errorMessage, sentAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrHistoryNotFound
	}
	return nil
}

func (r *historyRepository) StatusCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM email_history
		WHERE user_id = $1 AND sent_at >= $2
		GROUP BY status
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *historyRepository) DailyCounts(ctx context.Context, userID string, since time.Time) ([]domain.DailyStat, error) {
	query := `
		SELECT to_char(sent_at, 'YYYY-MM-DD') AS day, status, COUNT(*)
		FROM email_history
		WHERE user_id = $1 AND sent_at >= $2
		GROUP BY day, status
		ORDER BY day
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.DailyStat
	byDay := make(map[string]int) // day -> index into stats
	for rows.Next() {
		var day, status string
		var count int
		if err := rows.Scan(&day, &status, &count); err != nil {
			return nil, err
		}
		idx, ok := byDay[day]
		if !ok {
			stats = append(stats, domain.DailyStat{Date: day})
			idx = len(stats) - 1
			byDay[day] = idx
		}
		switch status {
		case domain.StatusSent:
			stats[idx].Sent = count
		case domain.StatusFailed:
			stats[idx].Failed = count
		}
	}
	return stats, rows.Err()
}
