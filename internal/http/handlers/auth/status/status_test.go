package status

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	authenticated bool
	got           string
}

func (s *stubService) IsUserAuthenticated(_ context.Context, username string) bool {
	s.got = username
	return s.authenticated
}

func TestStatusHandler(t *testing.T) {
	svc := &stubService{authenticated: true}
	r := chi.NewRouter()
	r.Get("/status/{username}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/carol", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "carol", svc.got)
	assert.JSONEq(t, `{"username":"carol","authenticated":true}`, rec.Body.String())
}
