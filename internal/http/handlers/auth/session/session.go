// Package session реализует HTTP-обработчики получения и обновления сессии пользователя.
// Сессия вычисляется заново при каждом запросе и нигде не хранится.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Service описывает операции над сессией.
type Service interface {
	GetUserSession(ctx context.Context, username string) (*models.Session, error)
	RefreshUserSession(ctx context.Context, username string) (*models.Session, error)
}

// Handler возвращает текущую сессию пользователя.
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
// @Summary Сессия пользователя
// @Tags Auth
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} models.Session "Сессия"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/session/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.log, "handlers.auth.session.get", h.service.GetUserSession)
}

// RefreshHandler обновляет сессию пользователя.
type RefreshHandler struct {
	log     *slog.Logger
	service Service
}

// NewRefresh создает новый экземпляр RefreshHandler.
func NewRefresh(log *slog.Logger, service Service) *RefreshHandler {
	return &RefreshHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновление сессии пользователя
// @Tags Auth
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} models.Session "Обновлённая сессия"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/session/refresh/{username} [post]
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.log, "handlers.auth.session.refresh", h.service.RefreshUserSession)
}

func serve(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	op string,
	get func(ctx context.Context, username string) (*models.Session, error),
) {
	log = log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	s, err := get(r.Context(), username)
	if err != nil {
		log.Error("failed to build session", sl.Err(err))
		status, body := response.FromError(err, "Failed to get session")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, s)
}
