// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
)

// Service описывает выход пользователя.
type Service interface {
	Logout(ctx context.Context, username string) error
}

// Response — ответ на успешный выход.
type Response struct {
	Message  string `json:"message" example:"Logout successful"`
	Username string `json:"username" example:"john_doe"`
}

// Handler обрабатывает запросы на выход.
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
// @Summary Выход пользователя
// @Description Сервер не хранит сессий, поэтому выход только фиксируется в журнале.
// @Tags Auth
// @Produce  json
// @Param username query string true "Имя пользователя"
// @Success 200 {object} Response "Выход выполнен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := r.URL.Query().Get("username")
	if err := h.service.Logout(r.Context(), username); err != nil {
		log.Error("logout failed", sl.Err(err))
		status, body := response.FromError(err, "Logout failed")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, Response{Message: "Logout successful", Username: username})
}
