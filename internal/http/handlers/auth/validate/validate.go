// Package validate реализует HTTP-обработчик проверки bearer-токена из заголовка Authorization.
package validate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-api/internal/http/response"
)

// Service описывает проверку токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) bool
}

// Response — результат проверки токена.
type Response struct {
	Valid   bool   `json:"valid" example:"true"`
	Message string `json:"message" example:"Token is valid"`
}

// Handler обрабатывает запросы на проверку токена.
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
// @Summary Проверка токена
// @Description Проверяет подпись и срок действия bearer-токена.
// @Tags Auth
// @Produce  json
// @Param Authorization header string true "Bearer <token>"
// @Success 200 {object} Response "Токен валиден"
// @Failure 400 {object} response.ErrorResponse "Некорректный заголовок"
// @Failure 401 {object} Response "Токен невалиден или истёк"
// @Router /auth/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.BearerToken(r)
	if !ok {
		log.Warn("missing or invalid authorization header")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid authorization header"))
		return
	}

	if !h.service.ValidateToken(r.Context(), token) {
		log.Info("token is invalid or expired")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, Response{Valid: false, Message: "Invalid or expired token"})
		return
	}

	log.Debug("token is valid")
	render.JSON(w, r, Response{Valid: true, Message: "Token is valid"})
}
