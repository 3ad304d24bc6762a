// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с PostgreSQL и Redis и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// SessionsRepository — refresh-сессии (таблица sessions).
//
// Сам refresh токен не хранится, только его sha256. Сессия живёт до expires_at
// или до отзыва; при ротации старая сессия ссылается на новую через replaced_by.
type SessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

const insertSession = `INSERT INTO sessions (user_id, refresh_hash, expires_at)
	VALUES ($1, $2, $3)
	RETURNING id`

// Create открывает новую refresh-сессию пользователя.
// Совпадение хэша с существующим — ErrConflict.
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	return createSession(ctx, r.db, userID, refreshHash, expiresAt)
}

// GetByRefreshHash возвращает сессию по хэшу refresh токена, в том числе отозванную:
// по отозванной сессии сервис распознаёт повторное использование токена.
// Неизвестный хэш — ErrUnauthorized.
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error) {
	var (
		s          models.Session
		revokedAt  sql.NullTime
		replacedBy uuid.NullUUID
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, revoked_at, replaced_by
		   FROM sessions
		  WHERE refresh_hash = $1`,
		refreshHash,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revokedAt, &replacedBy)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Session{}, serr.ErrUnauthorized
	case err != nil:
		return models.Session{}, serr.ErrInternal
	}

	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	if replacedBy.Valid {
		s.ReplacedBy = &replacedBy.UUID
	}
	return s, nil
}

// Rotate атомарно заменяет сессию old новой и возвращает id новой сессии.
//
// Новая сессия вставляется и старая отзывается в одной транзакции. Отзыв условный
// (revoked_at IS NULL): если старую сессию уже отозвал параллельный запрос
// с тем же refresh токеном или logout, транзакция откатывается, новая сессия
// не появляется, а вызывающий получает ErrUnauthorized.
func (r *SessionsRepository) Rotate(ctx context.Context, old models.Session, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	// после Commit вернёт sql.ErrTxDone
	defer func() { _ = tx.Rollback() }()

	newID, err := createSession(ctx, tx, old.UserID, refreshHash, expiresAt)
	if err != nil {
		return uuid.Nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions
		    SET revoked_at = now(), replaced_by = $2
		  WHERE id = $1 AND revoked_at IS NULL`,
		old.ID, newID,
	)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	if n == 0 {
		return uuid.Nil, serr.ErrUnauthorized
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	return newID, nil
}

// RevokeAllForUser отзывает все активные сессии пользователя (logout, reuse detection).
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// queryRower — общее у *sql.DB и *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createSession(ctx context.Context, q queryRower, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	if err := q.QueryRowContext(ctx, insertSession, userID, refreshHash, expiresAt).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, serr.ErrConflict
		}
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}
