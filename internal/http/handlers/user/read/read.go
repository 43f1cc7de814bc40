// Package read содержит обработчики получения одного пользователя по
// идентификатору, имени пользователя или email.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/params"
	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// ByIDGetter ищет пользователя по идентификатору.
type ByIDGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
}

// ByUsernameGetter ищет пользователя по имени.
type ByUsernameGetter interface {
	GetByUsername(ctx context.Context, username string) (*models.User, bool, error)
}

// ByEmailGetter ищет пользователя по email.
type ByEmailGetter interface {
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
}

// New godoc
// @Summary Пользователь по ID
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.User "Пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{id} [get]
func New(log *slog.Logger, getter ByIDGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.read.New"

		log := withRequest(log, op, r)

		id, err := params.ID(r)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		user, found, err := getter.GetByID(r.Context(), id)
		writeUser(w, r, log, user, found, err, models.UserNotFound(id))
	}
}

// NewByUsername godoc
// @Summary Пользователь по имени
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} models.User "Пользователь"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/username/{username} [get]
func NewByUsername(log *slog.Logger, getter ByUsernameGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.read.NewByUsername"

		log := withRequest(log, op, r)

		username := chi.URLParam(r, "username")
		user, found, err := getter.GetByUsername(r.Context(), username)
		writeUser(w, r, log, user, found, err, models.NotFound("User not found with username: %s", username))
	}
}

// NewByEmail godoc
// @Summary Пользователь по email
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param email path string true "Email"
// @Success 200 {object} models.User "Пользователь"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/email/{email} [get]
func NewByEmail(log *slog.Logger, getter ByEmailGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.read.NewByEmail"

		log := withRequest(log, op, r)

		email := chi.URLParam(r, "email")
		user, found, err := getter.GetByEmail(r.Context(), email)
		writeUser(w, r, log, user, found, err, models.NotFound("User not found with email: %s", email))
	}
}

func withRequest(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func writeUser(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	user *models.User,
	found bool,
	err error,
	notFound error,
) {
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	if !found {
		log.Info("user not found")
		writeError(w, r, log, notFound)
		return
	}
	render.JSON(w, r, user)
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := response.FromError(err, "Failed to get user")
	if status >= http.StatusInternalServerError {
		log.Error("failed to get user", sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
