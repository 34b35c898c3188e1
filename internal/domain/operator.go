package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for operator authentication.
var (
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Operator is a back-office user who reviews enquiries.
// swagger:model Operator
type Operator struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated operator.
type TokenIssuer interface {
	Issue(operatorID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated operator ID.
type TokenVerifier interface {
	Verify(token string) (operatorID string, err error)
}

// OperatorRepository defines the interface for operator storage.
type OperatorRepository interface {
	Create(ctx context.Context, op *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
}

// AuthService authenticates back-office operators.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, op *Operator, err error)
}
