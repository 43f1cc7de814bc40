package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/params"
	"github.com/magabrotheeeer/user-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
)

// Deleter удаляет пользователя.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// Response — ответ на успешное удаление.
type Response struct {
	Message string `json:"message" example:"User deleted successfully"`
	ID      int64  `json:"id" example:"1"`
}

// New godoc
// @Summary Удаление пользователя
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} Response "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [delete]
func New(log *slog.Logger, deleter Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.remove.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if username, ok := middlewarectx.UsernameFromContext(r.Context()); ok {
			log = log.With(slog.String("requested_by", username))
		}

		id, err := params.ID(r)
		if err != nil {
			log.Warn("invalid user id", sl.Err(err))
			status, body := response.FromError(err, "Invalid user ID")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		if err := deleter.Delete(r.Context(), id); err != nil {
			log.Error("failed to delete user", slog.Int64("id", id), sl.Err(err))
			status, body := response.FromError(err, "Failed to delete user")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		log.Info("user deleted", slog.Int64("id", id))
		render.JSON(w, r, Response{Message: "User deleted successfully", ID: id})
	}
}
