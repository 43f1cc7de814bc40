package models

import (
	"errors"
	"fmt"
)

// Виды ошибок бизнес-уровня. Проверяются через errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// Error — ошибка с видом и сообщением для клиента.
type Error struct {
	Kind    error
	Message string
}

// Error возвращает сообщение, которое можно отдать клиенту.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap позволяет errors.Is сравнивать вид ошибки.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput создаёт ошибку некорректных входных данных.
func InvalidInput(format string, args ...any) *Error {
	return newError(ErrInvalidInput, format, args...)
}

// Conflict создаёт ошибку нарушения уникальности.
func Conflict(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

// NotFound создаёт ошибку отсутствующей сущности.
func NotFound(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}

// Unauthorized создаёт ошибку отсутствующего или невалидного токена.
func Unauthorized(format string, args ...any) *Error {
	return newError(ErrUnauthorized, format, args...)
}

// UserNotFound — стандартная ошибка для отсутствующего ID.
func UserNotFound(id int64) *Error {
	return NotFound("User not found with ID: %d", id)
}

// UsernameTaken — конфликт по имени пользователя.
func UsernameTaken(username string) *Error {
	return Conflict("Username already exists: %s", username)
}

// EmailTaken — конфликт по email.
func EmailTaken(email string) *Error {
	return Conflict("Email already exists: %s", email)
}
