package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

var historyRowColumns = []string{
	"id", "user_id", "company_id", "resume_id", "template_id", "status",
	"sent_at", "error_message", "email", "company_name", "position",
}

func historyRow(id, status string, sentAt time.Time) []driver.Value {
	return []driver.Value{id, "u1", "c1", nil, nil, status, sentAt, "", "jobs@acme.example", "Acme", "Engineer"}
}

func TestHistoryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	record := &domain.EmailHistory{
		UserID:      "u1",
		CompanyID:   "c1",
		Status:      domain.StatusSent,
		SentAt:      sentAt,
		Email:       "jobs@acme.example",
		CompanyName: "Acme",
		Position:    "Engineer",
	}

	mock.ExpectQuery(`INSERT INTO email_history`).
		WithArgs("u1", "c1", nil, nil, domain.StatusSent, sentAt, "", "jobs@acme.example", "Acme", "Engineer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("hist-1"))

	repo := NewHistoryRepository(db)
	require.NoError(t, repo.Create(context.Background(), record))
	assert.Equal(t, "hist-1", record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		sentAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM email_history WHERE id = \$1 AND user_id = \$2`).
			WithArgs("hist-1", "u1").
			WillReturnRows(sqlmock.NewRows(historyRowColumns).AddRow(historyRow("hist-1", domain.StatusFailed, sentAt)...))

		repo := NewHistoryRepository(db)
		record, err := repo.GetByID(context.Background(), "hist-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", record.CompanyName)
		assert.Equal(t, domain.StatusFailed, record.Status)
		assert.Nil(t, record.ResumeID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM email_history`).
			WithArgs("nope", "u1").
			WillReturnError(sql.ErrNoRows)

		repo := NewHistoryRepository(db)
		_, err = repo.GetByID(context.Background(), "nope", "u1")
		assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
	})
}

func TestHistoryRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	from := sentAt.AddDate(0, 0, -7)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM email_history WHERE user_id = \$1 AND status = \$2 AND sent_at >= \$3`).
		WithArgs("u1", domain.StatusFailed, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`SELECT (.+) FROM email_history WHERE user_id = \$1 AND status = \$2 AND sent_at >= \$3 ORDER BY sent_at DESC LIMIT \$4 OFFSET \$5`).
		WithArgs("u1", domain.StatusFailed, from, 10, 10).
		WillReturnRows(sqlmock.NewRows(historyRowColumns).
			AddRow(historyRow("hist-2", domain.StatusFailed, sentAt)...).
			AddRow(historyRow("hist-1", domain.StatusFailed, sentAt.Add(-time.Hour))...))

	repo := NewHistoryRepository(db)
	records, total, err := repo.List(context.Background(), "u1", domain.HistoryFilter{
		Status:   domain.StatusFailed,
		DateFrom: &from,
		Page:     2,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, records, 2)
	assert.Equal(t, "hist-2", records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_UpdateResult(t *testing.T) {
	sentAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE email_history`).
			WithArgs("hist-1", domain.StatusSent, "", sentAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewHistoryRepository(db)
		require.NoError(t, repo.UpdateResult(context.Background(), "hist-1", domain.StatusSent, "", sentAt))
	})

	t.Run("not found zero rows affected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE email_history`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewHistoryRepository(db)
		err = repo.UpdateResult(context.Background(), "nope", domain.StatusSent, "", sentAt)
		assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
	})
}

func TestHistoryRepository_StatusCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\)`).
		WithArgs("u1", since).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(domain.StatusSent, 7).
			AddRow(domain.StatusFailed, 3))

	repo := NewHistoryRepository(db)
	counts, err := repo.StatusCounts(context.Background(), "u1", since)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{domain.StatusSent: 7, domain.StatusFailed: 3}, counts)
}

func TestHistoryRepository_DailyCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT to_char\(sent_at, 'YYYY-MM-DD'\) AS day, status, COUNT\(\*\)`).
		WithArgs("u1", since).
		WillReturnRows(sqlmock.NewRows([]string{"day", "status", "count"}).
			AddRow("2026-08-29", domain.StatusSent, 4).
			AddRow("2026-08-29", domain.StatusFailed, 1).
			AddRow("2026-08-30", domain.StatusSent, 3))

	repo := NewHistoryRepository(db)
	stats, err := repo.DailyCounts(context.Background(), "u1", since)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, domain.DailyStat{Date: "2026-08-29", Sent: 4, Failed: 1}, stats[0])
	assert.Equal(t, domain.DailyStat{Date: "2026-08-30", Sent: 3, Failed: 0}, stats[1])
}
