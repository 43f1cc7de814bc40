package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Logout(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func TestLogoutHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Logout", mock.Anything, "bob").Return(nil)

		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout?username=bob", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Logout successful","username":"bob"}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Logout", mock.Anything, "bob").Return(errors.New("boom"))

		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout?username=bob", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Logout failed"}`, rec.Body.String())
	})
}
