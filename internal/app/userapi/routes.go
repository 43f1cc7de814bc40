// Package userapi собирает HTTP-маршруты и зависимости сервиса пользователей.
package userapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует swagger-документ для /swagger/*
	_ "github.com/magabrotheeeer/user-api/docs"
	"github.com/magabrotheeeer/user-api/internal/config"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/cacheclear"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/health"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/status"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/auth/validate"
	usercacheclear "github.com/magabrotheeeer/user-api/internal/http/handlers/user/cacheclear"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/count"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/search"
	"github.com/magabrotheeeer/user-api/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/user-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-api/internal/metrics"
	authservice "github.com/magabrotheeeer/user-api/internal/services/auth"
	userservice "github.com/magabrotheeeer/user-api/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	authService *authservice.Service,
	userService *userservice.Service,
	sink *metrics.Sink,
) {
	// Глобальные middleware. URLFormat не подключается: он отрезает ".com" у /users/email/{email}.
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.MetricsMiddleware(sink))

		// Открытые конечные точки
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", login.New(logger, authService).ServeHTTP)
			r.Post("/validate", validate.New(logger, authService).ServeHTTP)
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Get("/session/{username}", session.New(logger, authService).ServeHTTP)
			r.Post("/session/refresh/{username}", session.NewRefresh(logger, authService).ServeHTTP)
			r.Get("/status/{username}", status.New(logger, authService).ServeHTTP)
			r.Get("/health", health.New(nil).ServeHTTP)
			r.Post("/cache/clear", cacheclear.New(logger, authService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Route("/users", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/", list.New(logger, userService))
			r.Post("/", create.New(logger, userService))
			r.Get("/search", search.New(logger, userService))
			r.Get("/count", count.New(logger, userService))
			r.Post("/cache/clear", usercacheclear.New(logger, userService))
			r.Get("/username/{username}", read.NewByUsername(logger, userService))
			r.Get("/email/{email}", read.NewByEmail(logger, userService))
			r.Get("/{id}", read.New(logger, userService))
			r.Put("/{id}", update.New(logger, userService))
			r.Delete("/{id}", remove.New(logger, userService))
		})
	})

	r.Handle("/metrics", sink.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
