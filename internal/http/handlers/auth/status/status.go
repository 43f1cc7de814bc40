// Package status реализует HTTP-обработчик статуса аутентификации пользователя.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Service описывает проверку статуса пользователя.
type Service interface {
	IsUserAuthenticated(ctx context.Context, username string) bool
}

// Response — статус аутентификации.
type Response struct {
	Username      string `json:"username" example:"john_doe"`
	Authenticated bool   `json:"authenticated" example:"true"`
}

// Handler обрабатывает запросы статуса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус аутентификации
// @Tags Auth
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} Response "Статус"
// @Router /auth/status/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.status"

	username := chi.URLParam(r, "username")
	authenticated := h.service.IsUserAuthenticated(r.Context(), username)

	h.log.Debug("auth status checked",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("username", username),
		slog.Bool("authenticated", authenticated),
	)
	render.JSON(w, r, Response{Username: username, Authenticated: authenticated})
}
