// Серверные модели (то, что хранится в БД)
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись. Email пустой, если не указан при регистрации.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time // nil до первого входа
	CreatedAt    time.Time
}

// Session — refresh-сессия пользователя.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time // nil если активна
	ReplacedBy *uuid.UUID // nil если не была заменена
}
