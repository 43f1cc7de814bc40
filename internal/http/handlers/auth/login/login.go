// Package login реализует HTTP-обработчик выдачи bearer-токена по имени пользователя.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username string) (*models.LoginResult, error)
}

// Handler обрабатывает HTTP-запросы на вход.
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
// @Summary Вход по имени пользователя
// @Description Выдаёт bearer-токен на 1 час для любого непустого имени пользователя.
// @Tags Auth
// @Produce  json
// @Param username query string true "Имя пользователя"
// @Success 200 {object} models.LoginResult "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Пустое имя пользователя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := r.URL.Query().Get("username")
	res, err := h.service.Login(r.Context(), username)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		status, body := response.FromError(err, "Authentication failed")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("login success", slog.String("username", res.Username))
	render.JSON(w, r, res)
}
