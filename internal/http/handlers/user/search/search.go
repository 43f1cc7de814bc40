package search

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/params"
	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Searcher ищет пользователей по подстроке имени или email.
type Searcher interface {
	Search(ctx context.Context, query string, req models.PageRequest) (*models.Page, error)
}

// Response — страница результатов поиска вместе с исходным запросом.
type Response struct {
	models.Page
	SearchQuery string `json:"searchQuery" example:"john"`
}

// New godoc
// @Summary Поиск пользователей
// @Description Ищет подстроку в имени пользователя или email без учёта регистра.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param query query string true "Подстрока для поиска"
// @Param page query int false "Номер страницы, с нуля"
// @Param size query int false "Размер страницы"
// @Param sort query string false "Сортировка: поле,направление" default(id,asc)
// @Success 200 {object} Response "Результаты поиска"
// @Failure 400 {object} response.ErrorResponse "Пустой запрос или некорректная пагинация"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/search [get]
func New(log *slog.Logger, searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.search.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		query := r.URL.Query().Get("query")
		if strings.TrimSpace(query) == "" {
			log.Warn("empty search query")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Search query cannot be empty"))
			return
		}

		req, err := params.Page(r)
		if err != nil {
			log.Warn("invalid paging parameters", sl.Err(err))
			status, body := response.FromError(err, "Invalid paging parameters")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		page, err := searcher.Search(r.Context(), query, req)
		if err != nil {
			log.Error("failed to search users", sl.Err(err))
			status, body := response.FromError(err, "Failed to search users")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		render.JSON(w, r, Response{Page: *page, SearchQuery: query})
	}
}
