// Package models содержит доменные модели сервиса: пользователя,
// страницу результатов, ответы аутентификации и ошибки бизнес-уровня.
// Структуры используются в бизнес‑логике, хранилищах и HTTP-обработчиках.
package models

// User представляет пользователя системы.
//
// ID назначается хранилищем при создании и больше не меняется.
// Username и Email уникальны среди всех пользователей.
type User struct {
	ID          int64  `json:"id" example:"1"`
	Username    string `json:"username" validate:"required,min=3,max=50" example:"john_doe"`
	Email       string `json:"email" validate:"required,email" example:"john.doe@example.com"`
	FullName    string `json:"fullName,omitempty" example:"John Doe"`
	PhoneNumber string `json:"phoneNumber,omitempty" example:"+1-555-123-4567"`
	Active      bool   `json:"active" example:"true"`
}

// UserRequest используется для приёма пользователя из JSON-запроса.
//
// Active — указатель, чтобы отличить отсутствующее поле (по умолчанию true)
// от явно переданного false.
type UserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// ToUser преобразует запрос в User без идентификатора.
func (r UserRequest) ToUser() User {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return User{
		Username:    r.Username,
		Email:       r.Email,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Active:      active,
	}
}
