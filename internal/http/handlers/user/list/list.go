package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/params"
	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Lister возвращает страницу пользователей.
type Lister interface {
	List(ctx context.Context, req models.PageRequest) (*models.Page, error)
}

// New godoc
// @Summary Список пользователей
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param page query int false "Номер страницы, с нуля"
// @Param size query int false "Размер страницы"
// @Param sort query string false "Сортировка: поле,направление" default(id,asc)
// @Success 200 {object} models.Page "Страница пользователей"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры пагинации"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req, err := params.Page(r)
		if err != nil {
			log.Warn("invalid paging parameters", sl.Err(err))
			status, body := response.FromError(err, "Invalid paging parameters")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		page, err := lister.List(r.Context(), req)
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			status, body := response.FromError(err, "Failed to list users")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		log.Debug("users listed", slog.Int("count", len(page.Users)), slog.Int64("total", page.TotalItems))
		render.JSON(w, r, page)
	}
}
