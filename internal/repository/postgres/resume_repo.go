package postgres

import (
	"context"
	"database/sql"
	"errors"

	"resumemailer/internal/domain"
)

type resumeRepository struct {
	DB *sql.DB
}

func NewResumeRepository(db *sql.DB) domain.ResumeRepository {
	return &resumeRepository{DB: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	query := `
		INSERT INTO resumes (user_id, filename, original_name, file_path, file_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		resume.UserID, resume.Filename, resume.OriginalName, resume.FilePath,
		resume.FileSize, resume.CreatedAt,
	).Scan(&resume.ID)
}

func (r *resumeRepository) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	query := `
		SELECT id, user_id, filename, original_name, file_path, file_size, created_at
		FROM resumes
		WHERE id = $1
	`
	resume := &domain.Resume{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.OriginalName,
		&resume.FilePath, &resume.FileSize, &resume.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResumeNotFound
		}
		return nil, err
	}
	return resume, nil
}

func (r *resumeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Resume, error) {
	query := `
		SELECT id, user_id, filename, original_name, file_path, file_size, created_at
		FROM resumes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []*domain.Resume
	for rows.Next() {
		resume := &domain.Resume{}
		if err := rows.Scan(
			&resume.ID, &resume.UserID, &resume.Filename, &resume.OriginalName,
			&resume.FilePath, &resume.FileSize, &resume.CreatedAt,
		); err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}
