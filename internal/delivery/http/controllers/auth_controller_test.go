package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyviewsurveys/internal/delivery/http/helpers"
	"skyviewsurveys/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	loginErr      error
	loginToken    string
	loginOperator *domain.Operator
	lastEmail     string
	lastPassword  string
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.Operator, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginOperator, nil
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		loginErr       error
		loginToken     string
		loginOperator  *domain.Operator
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:          "success",
			body:          `{"email":"ops@skyviewsurveys.example","password":"hunter2"}`,
			loginToken:    "signed-token",
			loginOperator: &domain.Operator{ID: "op-1", Email: "ops@skyviewsurveys.example"},
			wantStatus:    http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid request body",
		},
		{
			name:           "missing email",
			body:           `{"password":"hunter2"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "missing password",
			body:           `{"email":"ops@skyviewsurveys.example"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password is required",
		},
		{
			name:           "bad credentials",
			body:           `{"email":"ops@skyviewsurveys.example","password":"wrong"}`,
			loginErr:       domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid email or password",
		},
		{
			name:           "service error",
			body:           `{"email":"ops@skyviewsurveys.example","password":"hunter2"}`,
			loginErr:       errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{
				loginErr:      tt.loginErr,
				loginToken:    tt.loginToken,
				loginOperator: tt.loginOperator,
			}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, "signed-token", resp.Token)
				require.NotNil(t, resp.Operator)
				assert.Equal(t, "op-1", resp.Operator.ID)
				assert.Equal(t, "ops@skyviewsurveys.example", fake.lastEmail)
				return
			}
			var errResp helpers.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Contains(t, errResp.Error, tt.wantBodySubstr)
		})
	}
}
