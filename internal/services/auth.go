package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skyviewsurveys/internal/domain"
)

type authService struct {
	operatorRepo domain.OperatorRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
}

// NewAuthService creates an AuthService for back-office operator login.
func NewAuthService(operatorRepo domain.OperatorRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
	}
}

// Login verifies operator credentials and issues a signed token. A missing
// operator and a wrong password collapse to the same error so the endpoint
// does not reveal which emails exist.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Operator, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	op, err := s.operatorRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrOperatorNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get operator: %w", err)
	}
	if err := s.hasher.Compare(op.PasswordHash, op.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(op.ID, op.Email, []string{"operator"}, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, op, nil
}
