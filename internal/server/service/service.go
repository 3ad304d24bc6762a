// Package service содержит бизнес-логику приложения (calckeeper).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users        UsersRepo
	Sessions     SessionsRepo
	Tokens       TokensRepo // nil, если auth.revocation выключен
	Calculations CalculationsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth         *AuthService
	Calculations *CalculationsService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (хэширование пароля, JWT) и CalculationsService (размеры страниц).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:         NewAuthService(repos.Users, repos.Sessions, repos.Tokens, cfg),
		Calculations: NewCalculationsService(repos.Calculations, cfg.History),
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (register/login, проверка is_active).
type UsersRepo interface {
	Create(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error)
	GetByLogin(ctx context.Context, login string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// SessionsRepo — refresh-сессии в БД.
type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error)
	Rotate(ctx context.Context, old models.Session, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// TokensRepo — маркеры активных access-токенов (Redis).
type TokensRepo interface {
	Put(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error
	Owner(ctx context.Context, jti string) (uuid.UUID, error)
	Delete(ctx context.Context, jti string) error
}

// CalculationsRepo — история вычислений (только добавление и чтение).
type CalculationsRepo interface {
	Create(ctx context.Context, c models.Calculation) (models.Calculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *models.Cursor, limit int) ([]models.Calculation, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.Calculation, error)
}
