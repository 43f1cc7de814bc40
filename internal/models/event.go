package models

import "time"

// UserEventType — тип события жизненного цикла пользователя.
type UserEventType string

const (
	UserCreated UserEventType = "user.created"
	UserUpdated UserEventType = "user.updated"
	UserDeleted UserEventType = "user.deleted"
)

// UserEvent публикуется после успешного изменения пользователя.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     int64         `json:"userId"`
	Username   string        `json:"username"`
	OccurredAt time.Time     `json:"occurredAt"`
}
