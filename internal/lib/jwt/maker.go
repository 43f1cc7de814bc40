// Package jwt реализует выпуск и проверку подписанных bearer-токенов.
//
// Токен — HS256 JWT, в котором хранится subject (имя пользователя),
// время выпуска и абсолютное время истечения. Токены нигде не сохраняются:
// валидность полностью определяется подписью и полем exp.
package jwt

import (
	"errors"
	"time"
)

// TokenTTL — фиксированное время жизни токена.
const TokenTTL = time.Hour

// Ошибки проверки токена. Любая из них означает, что запрос не аутентифицирован.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrExpiredToken     = errors.New("token is expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Maker описывает интерфейс для генерации и проверки токенов.
type Maker interface {
	// GenerateToken выпускает токен для subject.
	GenerateToken(subject string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*Claims, error)
	// ExtractSubject читает subject без проверки подписи.
	ExtractSubject(tokenStr string) (string, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// WithTTL задаёт время жизни токена. Используется в тестах.
func WithTTL(ttl time.Duration) Option {
	return func(m *MakerImpl) {
		m.tokenTTL = ttl
	}
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа.
func NewJWTMaker(secretKey string, opts ...Option) *MakerImpl {
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  TokenTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
