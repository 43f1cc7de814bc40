package userapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/user-api/internal/cache"
	"github.com/magabrotheeeer/user-api/internal/config"
	"github.com/magabrotheeeer/user-api/internal/lib/jwt"
	"github.com/magabrotheeeer/user-api/internal/lib/sl"
	"github.com/magabrotheeeer/user-api/internal/metrics"
	"github.com/magabrotheeeer/user-api/internal/migrations"
	"github.com/magabrotheeeer/user-api/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/user-api/internal/services/auth"
	userservice "github.com/magabrotheeeer/user-api/internal/services/user"
	"github.com/magabrotheeeer/user-api/internal/storage/memory"
	"github.com/magabrotheeeer/user-api/internal/storage/repository"
)

// App — собранное приложение: HTTP-сервер и ресурсы, закрываемые при остановке.
type App struct {
	server          *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
	closers         []closer
}

type closer struct {
	name  string
	close func() error
}

// New создаёт хранилище, кэш, сервисы и маршруты согласно cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.userapi.New"

	a := &App{
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	sink := metrics.New(metrics.Options{
		Application: cfg.Application,
		Version:     cfg.Version,
		Environment: cfg.Env,
	})

	repo, err := a.initStorage(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, err := a.initCache(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	counts := cache.NewCounts(store, cfg.CacheTTL, logger)

	var opts []userservice.Option
	if cfg.RabbitMQURL != "" {
		publisher, err := a.initPublisher(cfg)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, userservice.WithPublisher(publisher))
	}

	authService := authservice.New(logger, jwt.NewJWTMaker(cfg.JWTSecretKey), sink)
	userService := userservice.New(logger, repo, counts, sink, opts...)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, userService, sink)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) initStorage(ctx context.Context, cfg *config.Config) (userservice.Repository, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := repository.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closer{name: "postgres", close: db.Close})

		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		if err := repository.CheckDatabaseReady(ctx, db); err != nil {
			return nil, err
		}
		a.logger.Info("postgres storage ready")
		return db, nil
	default:
		db, err := memory.New()
		if err != nil {
			return nil, err
		}
		a.logger.Info("in-memory storage ready")
		return db, nil
	}
}

func (a *App) initCache(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheDriver {
	case config.DriverRedis:
		c, err := cache.InitRedis(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closer{name: "redis", close: c.Close})
		a.logger.Info("redis count cache ready", slog.String("address", cfg.AddressRedis))
		return c, nil
	default:
		return cache.NewMemory(cfg.CacheCapacity, cfg.CacheTTL), nil
	}
}

func (a *App) initPublisher(cfg *config.Config) (*rabbitmq.Publisher, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer{name: "rabbitmq connection", close: conn.Close})

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer{name: "rabbitmq channel", close: ch.Close})

	a.logger.Info("publishing user events", slog.String("exchange", cfg.Exchange))
	return rabbitmq.NewPublisher(ch, cfg.Exchange), nil
}

// Handler возвращает корневой HTTP-обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и блокируется до ошибки сервера или отмены ctx.
// После отмены ctx сервер завершается штатно, затем закрываются ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close закрывает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error("failed to close resource", slog.String("resource", c.name), sl.Err(err))
		}
	}
	a.closers = nil
}
