package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

func TestSMTPConfigRepository_GetActive(t *testing.T) {
	t.Run("none configured", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM smtp_configs WHERE user_id = \$1 AND is_active = true`).
			WithArgs("u1").
			WillReturnError(sql.ErrNoRows)

		repo := NewSMTPConfigRepository(db)
		_, err = repo.GetActive(context.Background(), "u1")
		assert.ErrorIs(t, err, domain.ErrSMTPConfigNotFound)
	})

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM smtp_configs WHERE user_id = \$1 AND is_active = true`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "name", "host", "port", "secure", "username",
				"password", "from_email", "from_name", "is_active", "is_default",
				"last_tested", "test_status", "test_error_message", "created_at",
				"updated_at",
			}).AddRow(
				"cfg-1", "u1", "Primary", "smtp.example.com", 587, false, "jane",
				"secret", "jane@example.com", "Jane", true, true,
				now, domain.TestStatusSuccess, "", now, now,
			))

		repo := NewSMTPConfigRepository(db)
		cfg, err := repo.GetActive(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "cfg-1", cfg.ID)
		assert.True(t, cfg.Verified())
	})
}

func TestSMTPConfigRepository_Activate(t *testing.T) {
	t.Run("deactivates others then activates one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE smtp_configs SET is_active = false WHERE user_id = \$1 AND is_active = true`).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE smtp_configs SET is_active = true`).
			WithArgs("cfg-2", "u1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewSMTPConfigRepository(db)
		require.NoError(t, repo.Activate(context.Background(), "cfg-2", "u1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown config rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE smtp_configs SET is_active = false`).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE smtp_configs SET is_active = true`).
			WithArgs("nope", "u1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewSMTPConfigRepository(db)
		err = repo.Activate(context.Background(), "nope", "u1")
		assert.ErrorIs(t, err, domain.ErrSMTPConfigNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSMTPConfigRepository_UpdateTestResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	testedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE smtp_configs`).
		WithArgs("cfg-1", domain.TestStatusFailed, "connection refused", testedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSMTPConfigRepository(db)
	require.NoError(t, repo.UpdateTestResult(context.Background(), "cfg-1", domain.TestStatusFailed, "connection refused", testedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSMTPConfigRepository_DeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM smtp_configs`).
		WithArgs("nope", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSMTPConfigRepository(db)
	err = repo.Delete(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrSMTPConfigNotFound)
}
