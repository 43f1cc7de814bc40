// Package user содержит CRUD-логику над пользователями: чтение, постраничный
// список, поиск, создание с проверкой уникальности, обновление, удаление
// и кэшированные счётчики.
package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/user-api/internal/cache"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/models"
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, req models.PageRequest) ([]models.User, int64, error)
	Search(ctx context.Context, query string, req models.PageRequest) ([]models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create и Update возвращают ошибку вида models.ErrConflict при нарушении уникальности.
	Create(ctx context.Context, user models.User) (*models.User, error)
	Update(ctx context.Context, user models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// CountCache кэширует результаты подсчёта пользователей.
type CountCache interface {
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (int64, error)) (int64, bool, error)
	Invalidate(ctx context.Context) error
}

// Metrics описывает метрики, которые пишет сервис.
type Metrics interface {
	StartDatabaseQueryTimer() *prometheus.Timer
	IncUsersCreated()
	IncUsersUpdated()
	IncUsersDeleted()
	SetTotalUsers(count int64)
	SetActiveUsers(count int64)
	RecordBusinessMetric(name string, value float64)
}

// Publisher публикует события изменения пользователей.
type Publisher interface {
	PublishUserEvent(ctx context.Context, event models.UserEvent) error
}

// Service реализует операции над пользователями.
type Service struct {
	log       *slog.Logger
	repo      Repository
	counts    CountCache
	metrics   Metrics
	publisher Publisher
	now       func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithPublisher включает публикацию событий. Без него события не отправляются.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New создаёт новый экземпляр Service.
func New(log *slog.Logger, repo Repository, counts CountCache, metrics Metrics, opts ...Option) *Service {
	s := &Service{
		log:     log,
		repo:    repo,
		counts:  counts,
		metrics: metrics,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID возвращает пользователя по ID. Отсутствие пользователя не ошибка: found = false.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	const op = "services.user.GetByID"
	s.log.Debug("fetching user by id", slog.String("op", op), slog.Int64("id", id))
	return s.lookup(func() (*models.User, error) { return s.repo.GetByID(ctx, id) })
}

// GetByUsername возвращает пользователя по username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	const op = "services.user.GetByUsername"
	s.log.Debug("fetching user by username", slog.String("op", op), slog.String("username", username))
	return s.lookup(func() (*models.User, error) { return s.repo.GetByUsername(ctx, username) })
}

// GetByEmail возвращает пользователя по email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	const op = "services.user.GetByEmail"
	s.log.Debug("fetching user by email", slog.String("op", op), slog.String("email", email))
	return s.lookup(func() (*models.User, error) { return s.repo.GetByEmail(ctx, email) })
}

func (s *Service) lookup(get func() (*models.User, error)) (*models.User, bool, error) {
	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	u, err := get()
	if errors.Is(err, models.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// List возвращает страницу пользователей.
func (s *Service) List(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	const op = "services.user.List"
	log := s.log.With(slog.String("op", op))

	if err := req.Validate(); err != nil {
		return nil, err
	}
	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		return nil, err
	}
	s.metrics.RecordBusinessMetric("users_listed", float64(total))
	log.Debug("users listed", slog.Int64("total", total))
	page := models.NewPage(users, req, total)
	return &page, nil
}

// Search ищет пользователей, у которых username или email содержит query без учёта регистра.
func (s *Service) Search(ctx context.Context, query string, req models.PageRequest) (*models.Page, error) {
	const op = "services.user.Search"
	log := s.log.With(slog.String("op", op), slog.String("query", query))

	if err := req.Validate(); err != nil {
		return nil, err
	}
	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	users, total, err := s.repo.Search(ctx, query, req)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		return nil, err
	}
	s.metrics.RecordBusinessMetric("users_searched", float64(total))
	log.Debug("users searched", slog.Int64("total", total))
	page := models.NewPage(users, req, total)
	return &page, nil
}

// Create создаёт пользователя. Сначала проверяется username, затем email;
// гонку между проверкой и вставкой закрывает ограничение уникальности хранилища.
func (s *Service) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "services.user.Create"
	log := s.log.With(slog.String("op", op), slog.String("username", user.Username))

	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	exists, err := s.repo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.UsernameTaken(user.Username)
	}
	exists, err = s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.EmailTaken(user.Email)
	}

	user.ID = 0
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.IncUsersCreated()
	s.metrics.RecordBusinessMetric("user_created", 1)
	s.refreshTotal(ctx, log)
	s.publish(ctx, log, models.UserCreated, created)
	log.Info("user created", slog.Int64("id", created.ID))
	return created, nil
}

// Update полностью заменяет поля пользователя id. Проверки уникальности
// на этом уровне нет, конфликт вернёт хранилище.
func (s *Service) Update(ctx context.Context, id int64, details models.User) (*models.User, error) {
	const op = "services.user.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	existing, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Username = details.Username
	existing.Email = details.Email
	existing.FullName = details.FullName
	existing.PhoneNumber = details.PhoneNumber
	existing.Active = details.Active

	updated, err := s.repo.Update(ctx, *existing)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.UserNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.IncUsersUpdated()
	s.metrics.RecordBusinessMetric("user_updated", 1)
	s.publish(ctx, log, models.UserUpdated, updated)
	log.Info("user updated", slog.String("username", updated.Username))
	return updated, nil
}

// Delete удаляет пользователя.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "services.user.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	timer := s.metrics.StartDatabaseQueryTimer()
	defer timer.ObserveDuration()

	existing, err := s.existing(ctx, id)
	if err != nil {
		return err
	}
	if err = s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.UserNotFound(id)
		}
		return err
	}

	s.metrics.IncUsersDeleted()
	s.metrics.RecordBusinessMetric("user_deleted", 1)
	s.refreshTotal(ctx, log)
	s.publish(ctx, log, models.UserDeleted, existing)
	log.Info("user deleted", slog.String("username", existing.Username))
	return nil
}

// Count возвращает количество пользователей, результат кэшируется.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, _, err := s.counts.GetOrCompute(ctx, cache.KeyUserCount, func(ctx context.Context) (int64, error) {
		timer := s.metrics.StartDatabaseQueryTimer()
		defer timer.ObserveDuration()
		return s.repo.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	s.metrics.RecordBusinessMetric("user_count_retrieved", float64(n))
	return n, nil
}

// ActiveCount возвращает количество активных пользователей.
//
// Пока возвращает то же, что Count: фильтра по active нет.
func (s *Service) ActiveCount(ctx context.Context) (int64, error) {
	n, _, err := s.counts.GetOrCompute(ctx, cache.KeyActiveUserCount, func(ctx context.Context) (int64, error) {
		timer := s.metrics.StartDatabaseQueryTimer()
		defer timer.ObserveDuration()
		return s.repo.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	s.metrics.SetActiveUsers(n)
	s.metrics.RecordBusinessMetric("active_user_count_retrieved", float64(n))
	return n, nil
}

// ClearCaches сбрасывает кэш счётчиков.
func (s *Service) ClearCaches(ctx context.Context) error {
	const op = "services.user.ClearCaches"
	log := s.log.With(slog.String("op", op))

	if err := s.counts.Invalidate(ctx); err != nil {
		log.Error("failed to clear caches", sl.Err(err))
		return err
	}
	s.metrics.RecordBusinessMetric("cache_cleared", 1)
	log.Info("all user caches cleared")
	return nil
}

// existing возвращает пользователя id или models.UserNotFound без префиксов хранилища.
func (s *Service) existing(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.UserNotFound(id)
	}
	return u, err
}

// refreshTotal обновляет gauge total_users. Ошибка подсчёта не влияет на результат операции.
func (s *Service) refreshTotal(ctx context.Context, log *slog.Logger) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		log.Warn("failed to refresh total users gauge", sl.Err(err))
		return
	}
	s.metrics.SetTotalUsers(total)
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, typ models.UserEventType, u *models.User) {
	if s.publisher == nil {
		return
	}
	event := models.UserEvent{
		Type:       typ,
		UserID:     u.ID,
		Username:   u.Username,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishUserEvent(ctx, event); err != nil {
		log.Warn("failed to publish user event", slog.String("type", string(typ)), sl.Err(err))
	}
}
