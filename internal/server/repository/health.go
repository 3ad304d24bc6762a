package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HealthRepository проверяет доступность хранилищ для GET /health.
type HealthRepository struct {
	db  *sql.DB
	rdb *redis.Client // может быть nil, если Redis не используется
}

func NewHealthRepository(db *sql.DB, rdb *redis.Client) *HealthRepository {
	return &HealthRepository{db: db, rdb: rdb}
}

// Ping проверяет PostgreSQL и, если подключён, Redis.
func (r *HealthRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if r.rdb != nil {
		if err := r.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
