package models

// LoginResult — ответ на успешную аутентификацию.
type LoginResult struct {
	Token     string `json:"token"`
	Username  string `json:"username" example:"john_doe"`
	Message   string `json:"message" example:"Authentication successful"`
	TokenType string `json:"tokenType" example:"Bearer"`
	ExpiresIn string `json:"expiresIn" example:"1 hour"`
}

// Session — вычисляемое при каждом запросе представление сессии.
// Нигде не хранится и не переживает вызов.
type Session struct {
	Username   string `json:"username" example:"john_doe"`
	LastAccess int64  `json:"lastAccess" example:"1760000000000"` // unix millis
	Active     bool   `json:"active" example:"true"`
	Refreshed  bool   `json:"refreshed,omitempty"`
}
