package login

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-api/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username string) (*models.LoginResult, error) {
	args := m.Called(ctx, username)
	resp, _ := args.Get(0).(*models.LoginResult)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		username       string
		mockResp       *models.LoginResult
		mockErr        error
		wantStatusCode int
		wantBody       map[string]any
	}{
		{
			name:     "valid login",
			query:    "?username=bob",
			username: "bob",
			mockResp: &models.LoginResult{
				Token: "tok", Username: "bob", Message: "Authentication successful",
				TokenType: "Bearer", ExpiresIn: "1 hour",
			},
			wantStatusCode: http.StatusOK,
			wantBody: map[string]any{
				"token": "tok", "username": "bob", "message": "Authentication successful",
				"tokenType": "Bearer", "expiresIn": "1 hour",
			},
		},
		{
			name:           "empty username",
			query:          "",
			username:       "",
			mockErr:        models.InvalidInput("Username cannot be empty"),
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"status": "Error", "error": "Username cannot be empty"},
		},
		{
			name:           "unexpected error",
			query:          "?username=bob",
			username:       "bob",
			mockErr:        errors.New("signing key unavailable"),
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       map[string]any{"status": "Error", "error": "Authentication failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			svc.On("Login", mock.Anything, tt.username).Return(tt.mockResp, tt.mockErr)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
			svc.AssertExpectations(t)
		})
	}
}
