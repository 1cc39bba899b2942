package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrResumeNotFound    = errors.New("resume not found")
	ErrResumeFileMissing = errors.New("resume file not found on server")
)

// Resume is attachment metadata for an uploaded resume file. The file itself
// lives on the attachment store.
type Resume struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResumeRepository is the persistence port for resume metadata.
type ResumeRepository interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id string) (*Resume, error)
	ListByUser(ctx context.Context, userID string) ([]*Resume, error)
}

// FileStore is the attachment-store port. Dispatch probes it before a batch
// so a missing file rejects the whole request instead of failing every send.
type FileStore interface {
	Exists(path string) bool
}
