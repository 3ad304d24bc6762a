package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// TokensRepository хранит маркеры активных access-токенов в Redis.
//
// Ключ: <prefix><jti>, значение: id пользователя, TTL равен оставшемуся
// сроку жизни токена. Маркер исчезает сам после истечения токена
// или удаляется при logout.
type TokensRepository struct {
	rdb    *redis.Client
	prefix string
}

// NewTokensRepository создаёт репозиторий. Пустой prefix заменяется на "session:".
func NewTokensRepository(rdb *redis.Client, prefix string) *TokensRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &TokensRepository{rdb: rdb, prefix: prefix}
}

func (r *TokensRepository) key(jti string) string {
	return r.prefix + jti
}

// Put записывает маркер токена jti пользователя userID на время ttl.
func (r *TokensRepository) Put(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return serr.ErrInvalidInput
	}
	if err := r.rdb.Set(ctx, r.key(jti), userID.String(), ttl).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// Owner возвращает владельца активного токена jti.
// Нет маркера — ErrNotFound.
func (r *TokensRepository) Owner(ctx context.Context, jti string) (uuid.UUID, error) {
	v, err := r.rdb.Get(ctx, r.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, serr.ErrNotFound
		}
		return uuid.Nil, serr.ErrInternal
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}

// Delete удаляет маркер. Отсутствующий маркер ошибкой не считается.
func (r *TokensRepository) Delete(ctx context.Context, jti string) error {
	if err := r.rdb.Del(ctx, r.key(jti)).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}
