package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHistoryNotFound      = errors.New("email history not found")
	ErrHistoryNotResendable = errors.New("only failed emails can be resent")
)

// Outcome values for a dispatch attempt.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// EmailHistory records one send attempt. Recipient email, company name, and
// position are denormalized at write time so the audit trail survives later
// edits to the company record. Records are write-once except for the resend
// workflow, which updates status/error/timestamp in place.
type EmailHistory struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CompanyID    string    `json:"company_id"`
	ResumeID     *string   `json:"resume_id,omitempty"`
	TemplateID   *string   `json:"template_id,omitempty"`
	Status       string    `json:"status"`
	SentAt       time.Time `json:"sent_at"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Email        string    `json:"email"`
	CompanyName  string    `json:"company_name"`
	Position     string    `json:"position"`
}

// HistoryFilter narrows a history listing. Zero values mean "no filter".
type HistoryFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// DailyStat is one day's sent/failed tally.
type DailyStat struct {
	Date   string `json:"date"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}

// EmailStatistics summarizes dispatch outcomes for a user.
type EmailStatistics struct {
	TotalEmails int         `json:"total_emails"`
	TotalSent   int         `json:"total_sent"`
	TotalFailed int         `json:"total_failed"`
	SuccessRate float64     `json:"success_rate"`
	DailyStats  []DailyStat `json:"daily_stats"`
}

// HistoryService exposes history listing and aggregate statistics.
type HistoryService interface {
	List(ctx context.Context, userID string, filter HistoryFilter) ([]*EmailHistory, int, error)
	Get(ctx context.Context, id, userID string) (*EmailHistory, error)
	Statistics(ctx context.Context, userID string, days int) (*EmailStatistics, error)
}

// HistoryRepository is the persistence port for dispatch attempts.
type HistoryRepository interface {
	Create(ctx context.Context, h *EmailHistory) error
	GetByID(ctx context.Context, id, userID string) (*EmailHistory, error)
	List(ctx context.Context, userID string, filter HistoryFilter) ([]*EmailHistory, int, error)
	// UpdateResult patches status, error message, and timestamp on an
	// existing record. An empty errorMessage clears the stored error.
	UpdateResult(ctx context.Context, id, status, errorMessage string, sentAt time.Time) error
	StatusCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error)
	DailyCounts(ctx context.Context, userID string, since time.Time) ([]DailyStat, error)
}
