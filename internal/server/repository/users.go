package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UsersRepository — хранилище учётных записей (таблица users).
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// userColumns — колонки users в порядке scanUser.
const userColumns = `id, username, email, password_hash, is_active, last_login, created_at`

// Create сохраняет пользователя и возвращает id, выданный базой.
// Пустой email хранится как NULL. Занятый username или email — ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		username, sql.NullString{String: email, Valid: email != ""}, passwordHash,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, serr.ErrInternal
	}

	return id, nil
}

// GetByLogin ищет пользователя по username или email (без учёта регистра)
// и возвращает его вместе с хэшем пароля.
//
// В username не бывает '@', поэтому login не совпадёт с username одного
// пользователя и email другого одновременно.
func (r *UsersRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`
		   FROM users
		  WHERE username = $1 OR lower(email) = lower($1)`,
		login,
	)
	return scanUser(row)
}

// GetByID возвращает пользователя по id.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

// TouchLastLogin проставляет last_login = now().
func (r *UsersRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return serr.ErrInternal
	}
	if n, err := res.RowsAffected(); err != nil {
		return serr.ErrInternal
	} else if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u         models.User
		email     sql.NullString
		lastLogin sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.IsActive, &lastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	u.Email = email.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
