// Package health реализует HTTP-обработчик проверки доступности сервиса аутентификации.
package health

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// ServiceName — имя сервиса в ответе health-check.
const ServiceName = "Authentication Service"

// Response — ответ health-check.
type Response struct {
	Status    string `json:"status" example:"UP"`
	Service   string `json:"service" example:"Authentication Service"`
	Timestamp int64  `json:"timestamp" example:"1760000000000"`
}

// Handler отвечает на health-check.
type Handler struct {
	now func() time.Time
}

// New создает новый экземпляр Handler. При nil используется time.Now.
func New(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{now: now}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response "Сервис доступен"
// @Router /auth/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Status:    "UP",
		Service:   ServiceName,
		Timestamp: h.now().UnixMilli(),
	})
}
