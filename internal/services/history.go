package services

import (
	"context"
	"math"
	"time"

	"resumemailer/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	defaultStatsDays    = 30
	dailyStatsDays      = 7
)

type historyService struct {
	history domain.HistoryRepository
	now     func() time.Time
}

// NewHistoryService returns a HistoryService over the given repository.
func NewHistoryService(history domain.HistoryRepository) domain.HistoryService {
	return &historyService{history: history, now: time.Now}
}

func (s *historyService) List(ctx context.Context, userID string, filter domain.HistoryFilter) ([]*domain.EmailHistory, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	return s.history.List(ctx, userID, filter)
}

func (s *historyService) Get(ctx context.Context, id, userID string) (*domain.EmailHistory, error) {
	return s.history.GetByID(ctx, id, userID)
}

// Statistics aggregates outcomes over the trailing days window (default 30)
// plus per-day sent/failed tallies for the last week.
func (s *historyService) Statistics(ctx context.Context, userID string, days int) (*domain.EmailStatistics, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	now := s.now()

	counts, err := s.history.StatusCounts(ctx, userID, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	sent := counts[domain.StatusSent]
	failed := counts[domain.StatusFailed]
	total := sent + failed

	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(sent)/float64(total)*100*100) / 100
	}

	daily, err := s.history.DailyCounts(ctx, userID, now.AddDate(0, 0, -dailyStatsDays))
	if err != nil {
		return nil, err
	}

	return &domain.EmailStatistics{
		TotalEmails: total,
		TotalSent:   sent,
		TotalFailed: failed,
		SuccessRate: rate,
		DailyStats:  daily,
	}, nil
}
