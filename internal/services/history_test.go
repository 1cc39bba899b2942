package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

// capturingHistoryRepo records the filter and windows it was queried with.
type capturingHistoryRepo struct {
	fakeHistoryRepo
	lastFilter  domain.HistoryFilter
	statusSince time.Time
	dailySince  time.Time
	counts      map[string]int
	daily       []domain.DailyStat
}

func (c *capturingHistoryRepo) List(ctx context.Context, userID string, filter domain.HistoryFilter) ([]*domain.EmailHistory, int, error) {
	c.lastFilter = filter
	return nil, 0, nil
}

func (c *capturingHistoryRepo) StatusCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	c.statusSince = since
	return c.counts, nil
}

func (c *capturingHistoryRepo) DailyCounts(ctx context.Context, userID string, since time.Time) ([]domain.DailyStat, error) {
	c.dailySince = since
	return c.daily, nil
}

func TestHistoryService_ListClampsPagination(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.HistoryFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults", domain.HistoryFilter{}, 1, 50},
		{"negative page", domain.HistoryFilter{Page: -3, Limit: 10}, 1, 10},
		{"limit over cap", domain.HistoryFilter{Page: 2, Limit: 500}, 2, 100},
		{"values kept", domain.HistoryFilter{Page: 4, Limit: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &capturingHistoryRepo{}
			svc := NewHistoryService(repo)

			_, _, err := svc.List(context.Background(), "u1", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, repo.lastFilter.Page)
			assert.Equal(t, tt.wantLimit, repo.lastFilter.Limit)
		})
	}
}

func TestHistoryService_Statistics(t *testing.T) {
	repo := &capturingHistoryRepo{
		counts: map[string]int{domain.StatusSent: 7, domain.StatusFailed: 3},
		daily: []domain.DailyStat{
			{Date: "2026-08-29", Sent: 4, Failed: 1},
			{Date: "2026-08-30", Sent: 3, Failed: 2},
		},
	}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc := &historyService{history: repo, now: func() time.Time { return now }}

	stats, err := svc.Statistics(context.Background(), "u1", 0)
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalEmails)
	assert.Equal(t, 7, stats.TotalSent)
	assert.Equal(t, 3, stats.TotalFailed)
	assert.InDelta(t, 70.0, stats.SuccessRate, 0.001)
	assert.Len(t, stats.DailyStats, 2)

	// days=0 falls back to the 30-day window; daily tallies always cover 7 days.
	assert.Equal(t, now.AddDate(0, 0, -30), repo.statusSince)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.dailySince)
}

func TestHistoryService_StatisticsRounding(t *testing.T) {
	repo := &capturingHistoryRepo{
		counts: map[string]int{domain.StatusSent: 2, domain.StatusFailed: 1},
	}
	svc := &historyService{history: repo, now: time.Now}

	stats, err := svc.Statistics(context.Background(), "u1", 14)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, stats.SuccessRate, 0.001)
}

func TestHistoryService_StatisticsEmpty(t *testing.T) {
	repo := &capturingHistoryRepo{counts: map[string]int{}}
	svc := NewHistoryService(repo)

	stats, err := svc.Statistics(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEmails)
	assert.Equal(t, 0.0, stats.SuccessRate)
}
