package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

func TestCompanyRepository_Create(t *testing.T) {
	t.Run("success assigns id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO companies \(.+"values".+\) VALUES`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))

		repo := NewCompanyRepository(db)
		company := &domain.Company{
			UserID:    "u1",
			Name:      "Acme",
			Email:     "jobs@acme.example",
			Position:  "Engineer",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, repo.Create(context.Background(), company))
		assert.Equal(t, "c-1", company.ID)
	})

	t.Run("unique violation returns ErrDuplicateCompany", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO companies`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewCompanyRepository(db)
		err = repo.Create(context.Background(), &domain.Company{UserID: "u1", Name: "Acme"})
		assert.ErrorIs(t, err, domain.ErrDuplicateCompany)
	})
}

// PostgreSQL rejects fully reserved words used bare in a column list, and the
// sqlmock regexp matcher never parses SQL, so a syntax error would only show up
// against a real server. Guard the shared column lists instead.
func TestColumnListsQuoteReservedWords(t *testing.T) {
	reserved := map[string]bool{
		"all": true, "and": true, "any": true, "array": true, "case": true,
		"check": true, "column": true, "constraint": true, "default": true,
		"desc": true, "distinct": true, "do": true, "end": true, "group": true,
		"limit": true, "not": true, "offset": true, "order": true,
		"primary": true, "references": true, "select": true, "table": true,
		"to": true, "union": true, "user": true, "using": true, "values": true,
		"when": true, "where": true,
	}
	for name, columns := range map[string]string{
		"companyColumns":    companyColumns,
		"historyColumns":    historyColumns,
		"userColumns":       userColumns,
		"smtpConfigColumns": smtpConfigColumns,
	} {
		for _, col := range strings.Split(columns, ",") {
			col = strings.TrimSpace(col)
			assert.Falsef(t, reserved[col], "%s: column %q must be double-quoted", name, col)
		}
	}
}

func TestCompanyRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1 AND user_id = \$2`).
		WithArgs("nope", "u1").
		WillReturnError(sql.ErrNoRows)

	repo := NewCompanyRepository(db)
	_, err = repo.GetByID(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestCompanyRepository_GetByIDsUsesArrayBinding(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No matches: the query still runs with the full ID array bound once.
	mock.ExpectQuery(`SELECT .+"values".+ FROM companies WHERE id = ANY\(\$1\) AND user_id = \$2`).
		WithArgs(pq.Array([]string{"c1", "c2"}), "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewCompanyRepository(db)
	companies, err := repo.GetByIDs(context.Background(), []string{"c1", "c2"}, "u1")
	require.NoError(t, err)
	assert.Empty(t, companies)
	require.NoError(t, mock.ExpectationsWereMet())
}
