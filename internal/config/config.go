// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы хранилища и кэша.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Storage         `yaml:"storage"`
	Cache           `yaml:"cache"`
	RedisConnection `yaml:"redis_connection"`
	JWTToken        `yaml:"jwttoken"`
	RabbitMQ        `yaml:"rabbitmq"`
	RateLimit       `yaml:"rate_limit"`
	CORS            `yaml:"cors"`
	Metrics         `yaml:"metrics"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP     string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP     time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// Storage структура для выбора и настройки хранилища пользователей
type Storage struct {
	StorageDriver           string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	StorageConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"migrations"`
}

// Cache структура для настройки кэша счётчиков
type Cache struct {
	CacheDriver   string        `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory"`
	CacheTTL      time.Duration `yaml:"ttl" env-default:"10m"`
	CacheCapacity int           `yaml:"capacity" env-default:"1000"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
}

// RabbitMQ структура для публикации событий; пустой URL отключает публикацию
type RabbitMQ struct {
	RabbitMQURL string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange    string        `yaml:"exchange" env-default:"user.events"`
	Retries     int           `yaml:"retries" env-default:"5"`
	RetryDelay  time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit структура для ограничения частоты запросов; rps = 0 отключает лимит
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env-default:"20"`
}

// CORS структура для настройки CORS
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"*"`
}

// Metrics структура для общих меток метрик
type Metrics struct {
	Application string `yaml:"application" env-default:"user-api"`
	Version     string `yaml:"version" env-default:"1.0.0"`
}

// Load читает конфиг из файла path с переопределениями из окружения и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига из CONFIG_PATH, завершает процесс при ошибке.
// Перед чтением подгружается .env, если он есть.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("jwttoken.jwt_secret_key is required")
	}
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.StorageConnectionString == "" {
			return errors.New("storage.connection_string is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
	}
	switch c.CacheDriver {
	case DriverMemory:
		if c.CacheCapacity < 1 {
			return errors.New("cache.capacity must be positive")
		}
	case DriverRedis:
		if c.AddressRedis == "" {
			return errors.New("redis_connection.addressredis is required for redis cache")
		}
	default:
		return fmt.Errorf("unknown cache driver: %s", c.CacheDriver)
	}
	return nil
}

// String возвращает конфиг без секретов, для логов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"Cache:\n"+
			"  Driver: %s\n"+
			"  TTL: %s\n"+
			"  Capacity: %d\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n"+
			"Metrics:\n"+
			"  Application: %s\n"+
			"  Version: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.StorageDriver,
		c.CacheDriver,
		c.CacheTTL,
		c.CacheCapacity,
		c.AddressRedis,
		c.DB,
		c.RabbitMQURL != "",
		c.Exchange,
		c.RPS,
		c.Burst,
		c.Application,
		c.Version,
	)
}
