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

// Clearer сбрасывает кеши пользователей.
type Clearer interface {
	ClearCaches(ctx context.Context) error
}

// New godoc
// @Summary Сброс кешей пользователей
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} response.MessageResponse "Кеши сброшены"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/cache/clear [post]
func New(log *slog.Logger, clearer Clearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.cacheclear.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := clearer.ClearCaches(r.Context()); err != nil {
			log.Error("failed to clear user caches", sl.Err(err))
			status, body := response.FromError(err, "Failed to clear user caches")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		log.Info("user caches cleared")
		render.JSON(w, r, response.Message("All user caches cleared successfully"))
	}
}
