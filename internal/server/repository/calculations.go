package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// CalculationsRepository — история вычислений (таблица calculations).
//
// Записи только добавляются: методов изменения и удаления нет.
type CalculationsRepository struct {
	db *sql.DB
}

// NewCalculationsRepository создаёт новый экземпляр CalculationsRepository.
func NewCalculationsRepository(db *sql.DB) *CalculationsRepository {
	return &CalculationsRepository{db: db}
}

// Create сохраняет результат вычисления.
// id и created_at выдаёт база.
//
// Ошибки:
//   - ErrNotFound — пользователя нет (нарушение внешнего ключа)
//   - ErrInternal — ошибка базы данных
func (r *CalculationsRepository) Create(ctx context.Context, c models.Calculation) (models.Calculation, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO calculations (user_id, operation, operand_a, operand_b, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		c.UserID,
		c.Operation,
		c.A,
		c.B,
		c.Result,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Calculation{}, serr.ErrNotFound
		}
		return models.Calculation{}, serr.ErrInternal
	}

	return c, nil
}

// ListByUser возвращает до limit записей пользователя, новые первыми.
//
// Если after != nil, выдача начинается строго после записи курсора.
// Порядок (created_at DESC, id DESC) полный, поэтому записи
// с одинаковым created_at не теряются и не дублируются между страницами.
func (r *CalculationsRepository) ListByUser(ctx context.Context, userID uuid.UUID, after *models.Cursor, limit int) ([]models.Calculation, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if after == nil {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, user_id, operation, operand_a, operand_b, result, created_at
			  FROM calculations
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2
		`, userID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, user_id, operation, operand_a, operand_b, result, created_at
			  FROM calculations
			 WHERE user_id = $1
			   AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4
		`, userID, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	out := make([]models.Calculation, 0, limit)
	for rows.Next() {
		var c models.Calculation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Operation, &c.A, &c.B, &c.Result, &c.CreatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}

	return out, nil
}

// GetByID возвращает запись пользователя по id.
// Чужая запись неотличима от отсутствующей: ErrNotFound.
func (r *CalculationsRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Calculation, error) {
	var c models.Calculation

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, operation, operand_a, operand_b, result, created_at
		  FROM calculations
		 WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Operation, &c.A, &c.B, &c.Result, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Calculation{}, serr.ErrNotFound
		}
		return models.Calculation{}, serr.ErrInternal
	}

	return c, nil
}
