package count

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
)

// Counter возвращает количество пользователей.
type Counter interface {
	Count(ctx context.Context) (int64, error)
	ActiveCount(ctx context.Context) (int64, error)
}

// Response — количество пользователей.
type Response struct {
	TotalUsers  int64 `json:"totalUsers" example:"42"`
	ActiveUsers int64 `json:"activeUsers" example:"42"`
	Cached      bool  `json:"cached" example:"true"`
}

// New godoc
// @Summary Количество пользователей
// @Description Значения берутся из кеша и могут отставать не больше чем на TTL кеша.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} Response "Количество пользователей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/count [get]
func New(log *slog.Logger, counter Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.count.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		total, err := counter.Count(r.Context())
		if err != nil {
			log.Error("failed to count users", sl.Err(err))
			status, body := response.FromError(err, "Failed to count users")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		active, err := counter.ActiveCount(r.Context())
		if err != nil {
			log.Error("failed to count active users", sl.Err(err))
			status, body := response.FromError(err, "Failed to count users")
			render.Status(r, status)
			render.JSON(w, r, body)
			return
		}

		render.JSON(w, r, Response{TotalUsers: total, ActiveUsers: active, Cached: true})
	}
}
