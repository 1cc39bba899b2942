package domain

import (
	"context"
	"errors"
)

// MaxBatchRecipients caps one dispatch invocation. The bound exists to keep
// outbound volume per request under control, not for pagination.
const MaxBatchRecipients = 50

var (
	ErrNoRecipients      = errors.New("please select at least one company")
	ErrTooManyRecipients = errors.New("cannot send more than 50 emails at once")
	ErrNoCompaniesFound  = errors.New("no companies found")
)

// RenderOverrides carries caller-supplied subject/message that take precedence
// over the template's values. A non-nil Message marks the body as manually
// typed text whose line breaks must become HTML breaks.
type RenderOverrides struct {
	Subject *string
	Message *string
}

// BatchRequest is one bulk-dispatch invocation for 1..MaxBatchRecipients
// companies.
type BatchRequest struct {
	CompanyIDs    []string
	ResumeID      *string
	TemplateID    *string
	CustomSubject *string
	CustomMessage *string
}

// RecipientResult is the per-recipient outcome entry, in input order.
type RecipientResult struct {
	Company string `json:"company"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates a batch dispatch. Total counts only recipients that
// resolved to real companies.
type BatchResult struct {
	SentCount   int               `json:"sent_count"`
	FailedCount int               `json:"failed_count"`
	Total       int               `json:"total"`
	Results     []RecipientResult `json:"results"`
}

// TestSendRequest sends one rendered message to an arbitrary address using a
// fixture company, without writing history.
type TestSendRequest struct {
	Email         string
	ResumeID      string
	TemplateID    *string
	CustomSubject *string
	CustomMessage *string
}

// DispatchService is the email dispatch core: bulk sends, test sends, and
// resending a previously failed attempt.
type DispatchService interface {
	DispatchBatch(ctx context.Context, userID string, req *BatchRequest) (*BatchResult, error)
	SendTest(ctx context.Context, userID string, req *TestSendRequest) error
	Resend(ctx context.Context, userID, historyID string) error
}
