// Package cacheclear реализует HTTP-обработчик сброса кешей аутентификации.
package cacheclear

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
)

// Service описывает сброс кешей.
type Service interface {
	ClearAllAuthCaches(ctx context.Context) error
}

// Handler обрабатывает запросы на сброс кешей.
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
// @Summary Сброс кешей аутентификации
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.MessageResponse "Кеши сброшены"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/cache/clear [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.cacheclear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.ClearAllAuthCaches(r.Context()); err != nil {
		log.Error("failed to clear auth caches", sl.Err(err))
		status, body := response.FromError(err, "Failed to clear authentication caches")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("auth caches cleared")
	render.JSON(w, r, response.Message("All authentication caches cleared successfully"))
}
