package search_test

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

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/search"
	"github.com/magabrotheeeer/user-api/internal/models"
)

type mockSearcher struct {
	SearchFunc func(ctx context.Context, query string, req models.PageRequest) (*models.Page, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, req models.PageRequest) (*models.Page, error) {
	return m.SearchFunc(ctx, query, req)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func TestSearchHandler(t *testing.T) {
	s := &mockSearcher{
		SearchFunc: func(_ context.Context, query string, req models.PageRequest) (*models.Page, error) {
			if query == "boom" {
				return nil, errors.New("timeout")
			}
			require.Equal(t, "JOHN", query)
			require.Equal(t, 5, req.Size)
			page := models.NewPage([]models.User{{ID: 1, Username: "jdoe", Email: "john@x.com", Active: true}}, req, 1)
			return &page, nil
		},
	}
	h := search.New(slog.New(discardHandler{}), s)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/search?query=JOHN&size=5", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "JOHN", got["searchQuery"])
		assert.Equal(t, float64(1), got["totalItems"])
		assert.Equal(t, float64(1), got["totalPages"])
		assert.Equal(t, false, got["hasNext"])
		assert.Len(t, got["users"], 1)
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"missing query", "/api/v1/users/search", http.StatusBadRequest, "Search query cannot be empty"},
		{"blank query", "/api/v1/users/search?query=%20%20", http.StatusBadRequest, "Search query cannot be empty"},
		{"bad page", "/api/v1/users/search?query=a&page=-1", http.StatusBadRequest, "Page index must not be less than zero"},
		{"storage failure", "/api/v1/users/search?query=boom", http.StatusInternalServerError, "Failed to search users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}
