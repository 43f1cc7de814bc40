package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/user-api/internal/lib/sl"
)

// Ключи кэша счётчиков пользователей.
const (
	KeyUserCount       = "users:count"
	KeyActiveUserCount = "users:active_count"
)

// Store описывает хранилище кэша.
type Store interface {
	// Get пытается получить значение из кэша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кэш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кэша по ключам.
	Invalidate(ctx context.Context, keys ...string) error
}

// Counts кэширует результаты подсчёта пользователей на время ttl.
//
// Ошибки хранилища при чтении и записи не прерывают запрос: значение
// вычисляется заново, ошибка пишется в лог.
type Counts struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// NewCounts создаёт Counts поверх store.
func NewCounts(store Store, ttl time.Duration, log *slog.Logger) *Counts {
	return &Counts{store: store, ttl: ttl, log: log}
}

// GetOrCompute возвращает закэшированное значение key или вычисляет его через compute
// и сохраняет. Второе значение равно true, если ответ взят из кэша.
func (c *Counts) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (int64, error)) (int64, bool, error) {
	const op = "cache.Counts.GetOrCompute"
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	var cached int64
	found, err := c.store.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read count from cache", sl.Err(err))
	}
	if found {
		log.Debug("count served from cache")
		return cached, true, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return 0, false, err
	}
	if err = c.store.Set(ctx, key, value, c.ttl); err != nil {
		log.Warn("failed to store count in cache", sl.Err(err))
	}
	return value, false, nil
}

// Invalidate сбрасывает оба ключа счётчиков.
func (c *Counts) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx, KeyUserCount, KeyActiveUserCount)
}
