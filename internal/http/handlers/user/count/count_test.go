package count_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/count"
)

type mockCounter struct {
	CountFunc       func(ctx context.Context) (int64, error)
	ActiveCountFunc func(ctx context.Context) (int64, error)
}

func (m *mockCounter) Count(ctx context.Context) (int64, error)       { return m.CountFunc(ctx) }
func (m *mockCounter) ActiveCount(ctx context.Context) (int64, error) { return m.ActiveCountFunc(ctx) }

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func TestCountHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := &mockCounter{
			CountFunc:       func(context.Context) (int64, error) { return 3, nil },
			ActiveCountFunc: func(context.Context) (int64, error) { return 3, nil },
		}
		w := httptest.NewRecorder()
		count.New(slog.New(discardHandler{}), c).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/count", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"totalUsers":3,"activeUsers":3,"cached":true}`, w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		c := &mockCounter{
			CountFunc: func(context.Context) (int64, error) { return 0, errors.New("db down") },
		}
		w := httptest.NewRecorder()
		count.New(slog.New(discardHandler{}), c).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/count", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Failed to count users"}`, w.Body.String())
	})
}
