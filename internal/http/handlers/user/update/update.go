package update

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
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Updater обновляет пользователя.
type Updater interface {
	Update(ctx context.Context, id int64, details models.User) (*models.User, error)
}

// New godoc
// @Summary Обновление пользователя
// @Description Имя пользователя и email проверяются на уникальность хранилищем: занятое значение даёт 409.
// @Tags Users
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "ID пользователя"
// @Param user body models.UserRequest true "Новые данные пользователя"
// @Success 200 {object} models.User "Обновлённый пользователь"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя или email заняты"
// @Router /users/{id} [put]
func New(log *slog.Logger, updater Updater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.update.New"

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

		details, err := params.User(r)
		if err != nil {
			log.Warn("invalid request", sl.Err(err))
			status, body := response.FromError(err, "Invalid request")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		updated, err := updater.Update(r.Context(), id, details)
		if err != nil {
			log.Error("failed to update user", slog.Int64("id", id), sl.Err(err))
			status, body := response.FromError(err, "Failed to update user")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		log.Info("user updated", slog.Int64("id", updated.ID))
		render.JSON(w, r, updated)
	}
}
