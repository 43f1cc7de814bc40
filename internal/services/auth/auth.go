// Package auth содержит логику аутентификации по bearer-токенам:
// выпуск токена по имени пользователя, проверку токена и представление сессии.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/user-api/internal/lib/jwt"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Metrics описывает метрики, которые пишет сервис.
type Metrics interface {
	RecordLogin(success bool)
	RecordBusinessMetric(name string, value float64)
}

// Service отвечает за выпуск и проверку токенов и сессии пользователей.
type Service struct {
	log      *slog.Logger
	jwtMaker jwt.Maker
	metrics  Metrics
	now      func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени для lastAccess сессии.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New создаёт новый экземпляр Service.
func New(log *slog.Logger, jwtMaker jwt.Maker, metrics Metrics, opts ...Option) *Service {
	s := &Service{
		log:      log,
		jwtMaker: jwtMaker,
		metrics:  metrics,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login выпускает токен для username. Пароль не проверяется:
// любой непустой username считается аутентифицированным.
func (s *Service) Login(_ context.Context, username string) (*models.LoginResult, error) {
	const op = "services.auth.Login"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	if strings.TrimSpace(username) == "" {
		s.metrics.RecordLogin(false)
		s.metrics.RecordBusinessMetric("authentication_failed", 1)
		log.Debug("authentication failed", slog.String("reason", "empty_username"))
		return nil, models.InvalidInput("Username cannot be empty")
	}

	token, err := s.jwtMaker.GenerateToken(username)
	if err != nil {
		s.metrics.RecordLogin(false)
		s.metrics.RecordBusinessMetric("authentication_failed", 1)
		log.Error("failed to generate token", sl.Err(err))
		return nil, err
	}

	s.metrics.RecordLogin(true)
	s.metrics.RecordBusinessMetric("user_authenticated", 1)
	log.Info("user authenticated")

	return &models.LoginResult{
		Token:     token,
		Username:  username,
		Message:   "Authentication successful",
		TokenType: "Bearer",
		ExpiresIn: "1 hour",
	}, nil
}

// ValidateToken сообщает, валиден ли токен. Ошибки не возвращаются:
// любой сбой разбора или проверки означает false.
func (s *Service) ValidateToken(_ context.Context, token string) bool {
	const op = "services.auth.ValidateToken"
	log := s.log.With(slog.String("op", op))

	subject, err := s.jwtMaker.ExtractSubject(token)
	if err != nil {
		log.Warn("token validation error", sl.Err(err))
		s.metrics.RecordBusinessMetric("token_validation_error", 1)
		return false
	}
	if _, err = s.jwtMaker.ParseToken(token); err != nil {
		log.Debug("token validation failed", sl.Err(err))
		s.metrics.RecordBusinessMetric("token_validation_failed", 1)
		return false
	}

	log.Debug("token validated", slog.String("username", subject))
	s.metrics.RecordBusinessMetric("token_validated", 1)
	return true
}

// Authenticate проверяет токен и возвращает его subject.
// Subject не сверяется с хранилищем пользователей.
func (s *Service) Authenticate(_ context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Logout только фиксирует событие: токены не отзываются и истекают сами.
func (s *Service) Logout(_ context.Context, username string) error {
	const op = "services.auth.Logout"
	s.log.Info("user logged out", slog.String("op", op), slog.String("username", username))
	s.metrics.RecordBusinessMetric("user_logged_out", 1)
	return nil
}

// GetUserSession возвращает свежее представление сессии.
func (s *Service) GetUserSession(_ context.Context, username string) (*models.Session, error) {
	const op = "services.auth.GetUserSession"
	s.log.Debug("getting session info", slog.String("op", op), slog.String("username", username))
	s.metrics.RecordBusinessMetric("session_retrieved", 1)
	return s.session(username, false), nil
}

// RefreshUserSession возвращает новое представление сессии с признаком refreshed.
func (s *Service) RefreshUserSession(_ context.Context, username string) (*models.Session, error) {
	const op = "services.auth.RefreshUserSession"
	s.log.Debug("refreshing session", slog.String("op", op), slog.String("username", username))
	s.metrics.RecordBusinessMetric("session_refreshed", 1)
	return s.session(username, true), nil
}

func (s *Service) session(username string, refreshed bool) *models.Session {
	return &models.Session{
		Username:   username,
		LastAccess: s.now().UnixMilli(),
		Active:     true,
		Refreshed:  refreshed,
	}
}

// IsUserAuthenticated возвращает true для любого непустого username.
//
// Заглушка: ни токены, ни хранилище не проверяются.
func (s *Service) IsUserAuthenticated(_ context.Context, username string) bool {
	const op = "services.auth.IsUserAuthenticated"
	authenticated := strings.TrimSpace(username) != ""
	s.log.Debug("checking authentication status",
		slog.String("op", op),
		slog.String("username", username),
		slog.Bool("authenticated", authenticated),
	)
	s.metrics.RecordBusinessMetric("auth_status_checked", 1)
	return authenticated
}

// ClearAllAuthCaches ничего не очищает: кэшей аутентификации нет. Событие только логируется.
func (s *Service) ClearAllAuthCaches(_ context.Context) error {
	const op = "services.auth.ClearAllAuthCaches"
	s.log.Info("clearing all authentication caches", slog.String("op", op))
	s.metrics.RecordBusinessMetric("auth_cache_cleared", 1)
	return nil
}
