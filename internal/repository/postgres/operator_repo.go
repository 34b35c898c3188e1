package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"skyviewsurveys/internal/domain"
)

// Postgres error code for unique_violation.
const uniqueViolation = "23505"

type operatorRepository struct {
	DB *sql.DB
}

func NewOperatorRepository(db *sql.DB) domain.OperatorRepository {
	return &operatorRepository{DB: db}
}

func (r *operatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	query := `
		INSERT INTO operators (email, password_hash, salt, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, op.Email, op.PasswordHash, op.Salt, op.Name).
		Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return domain.ErrInvalidInput
	}
	return err
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	query := `
		SELECT id, email, password_hash, salt, name, created_at, updated_at
		FROM operators
		WHERE email = $1
	`
	op := &domain.Operator{}
	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Salt, &op.Name, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}
