package create

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

// Creater создаёт пользователя.
type Creater interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
}

// New godoc
// @Summary Создание пользователя
// @Tags Users
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param user body models.UserRequest true "Данные пользователя"
// @Success 201 {object} models.User "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя или email заняты"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [post]
func New(log *slog.Logger, creater Creater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if username, ok := middlewarectx.UsernameFromContext(r.Context()); ok {
			log = log.With(slog.String("requested_by", username))
		}

		user, err := params.User(r)
		if err != nil {
			log.Warn("invalid request", sl.Err(err))
			status, body := response.FromError(err, "Invalid request")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}
		log.Debug("request body decoded", slog.String("username", user.Username))

		created, err := creater.Create(r.Context(), user)
		if err != nil {
			log.Error("failed to create user", sl.Err(err))
			status, body := response.FromError(err, "Failed to create user")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		log.Info("user created", slog.Int64("id", created.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}
