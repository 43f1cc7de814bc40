package list_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/user-api/internal/models"
)

type mockLister struct {
	ListFunc func(ctx context.Context, req models.PageRequest) (*models.Page, error)
}

func (m *mockLister) List(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	return m.ListFunc(ctx, req)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestListHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		lister := &mockLister{
			ListFunc: func(_ context.Context, req models.PageRequest) (*models.Page, error) {
				require.Equal(t, models.PageRequest{Page: 0, Size: 1, SortField: "username", Direction: models.SortDesc}, req)
				page := models.NewPage([]models.User{{ID: 2, Username: "bob", Email: "bob@x.com", Active: true}}, req, 2)
				return &page, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users?page=0&size=1&sort=username,desc", nil)
		w := httptest.NewRecorder()
		list.New(makeLogger(), lister).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got models.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got.Users, 1)
		assert.Equal(t, int64(2), got.TotalItems)
		assert.Equal(t, 2, got.TotalPages)
		assert.True(t, got.HasNext)
		assert.False(t, got.HasPrevious)
	})

	t.Run("bad paging", func(t *testing.T) {
		lister := &mockLister{
			ListFunc: func(context.Context, models.PageRequest) (*models.Page, error) {
				t.Fatal("List must not be called")
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users?size=abc", nil)
		w := httptest.NewRecorder()
		list.New(makeLogger(), lister).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Invalid size parameter: abc"}`, w.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		lister := &mockLister{
			ListFunc: func(context.Context, models.PageRequest) (*models.Page, error) {
				return nil, errors.New("connection reset")
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		w := httptest.NewRecorder()
		list.New(makeLogger(), lister).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"Failed to list users"}`, w.Body.String())
	})
}
