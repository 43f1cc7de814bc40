package cacheclear

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err error
}

func (s stubService) ClearAllAuthCaches(context.Context) error { return s.err }

func TestCacheClearHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		New(log, stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/cache/clear", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"All authentication caches cleared successfully"}`, rec.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		New(log, stubService{err: errors.New("boom")}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/cache/clear", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Failed to clear authentication caches"}`, rec.Body.String())
	})
}
