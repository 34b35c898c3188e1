package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"skyviewsurveys/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorRepository_GetByEmail(t *testing.T) {
	columns := []string{"id", "email", "password_hash", "salt", "name", "created_at", "updated_at"}
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM operators`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("op-uuid-1", "ops@example.com", "hash", "salt", "Ops", now, now))

		repo := NewOperatorRepository(db)
		op, err := repo.GetByEmail(context.Background(), "ops@example.com")
		require.NoError(t, err)
		assert.Equal(t, "op-uuid-1", op.ID)
		assert.Equal(t, "ops@example.com", op.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM operators`).
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewOperatorRepository(db)
		_, err = repo.GetByEmail(context.Background(), "missing@example.com")
		require.ErrorIs(t, err, domain.ErrOperatorNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOperatorRepository_Create(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO operators`).
			WithArgs("ops@example.com", "hash", "salt", "Ops").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("op-uuid-1", now, now))

		repo := NewOperatorRepository(db)
		op := &domain.Operator{Email: "ops@example.com", PasswordHash: "hash", Salt: "salt", Name: "Ops"}
		require.NoError(t, repo.Create(context.Background(), op))
		assert.Equal(t, "op-uuid-1", op.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO operators`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewOperatorRepository(db)
		op := &domain.Operator{Email: "ops@example.com", PasswordHash: "hash", Salt: "salt"}
		require.ErrorIs(t, repo.Create(context.Background(), op), domain.ErrInvalidInput)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
