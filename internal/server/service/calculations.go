package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/calc"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// CalculationsService — вычисления и история пользователя.
type CalculationsService struct {
	repo CalculationsRepo

	defaultPageSize int
	maxPageSize     int
}

// HistoryPage — страница истории и курсор следующей (пустой, если страниц больше нет).
type HistoryPage struct {
	Items      []models.Calculation
	NextCursor string
}

// NewCalculationsService создаёт сервис. Нулевые размеры страниц заменяются на 20 и 100.
func NewCalculationsService(repo CalculationsRepo, cfg config.HistoryConfig) *CalculationsService {
	s := &CalculationsService{
		repo:            repo,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
	if s.defaultPageSize <= 0 {
		s.defaultPageSize = 20
	}
	if s.maxPageSize < s.defaultPageSize {
		s.maxPageSize = max(100, s.defaultPageSize)
	}
	return s
}

// Calculate вычисляет результат и записывает его в историю пользователя.
//
// Ошибки:
//   - ErrUnsupportedOperation — неизвестная операция
//   - ErrDivisionByZero — деление на ноль, в историю ничего не пишется
func (s *CalculationsService) Calculate(ctx context.Context, userID uuid.UUID, operation string, a, b float64) (models.Calculation, error) {
	op, err := calc.ParseOperation(operation)
	if err != nil {
		return models.Calculation{}, err
	}

	result, err := calc.Compute(op, a, b)
	if err != nil {
		return models.Calculation{}, err
	}

	return s.repo.Create(ctx, models.Calculation{
		UserID:    userID,
		Operation: op.String(),
		A:         a,
		B:         b,
		Result:    result,
	})
}

// History возвращает страницу истории пользователя, новые записи первыми.
//
// limit == 0 — размер страницы по умолчанию, больше максимума — обрезается до максимума,
// отрицательный — ErrInvalidInput. Некорректный курсор — ErrInvalidCursor.
func (s *CalculationsService) History(ctx context.Context, userID uuid.UUID, limit int, cursor string) (HistoryPage, error) {
	switch {
	case limit < 0:
		return HistoryPage{}, serr.ErrInvalidInput
	case limit == 0:
		limit = s.defaultPageSize
	case limit > s.maxPageSize:
		limit = s.maxPageSize
	}

	var after *models.Cursor
	if cursor != "" {
		c, err := models.DecodeCursor(cursor)
		if err != nil {
			return HistoryPage{}, serr.ErrInvalidCursor
		}
		after = &c
	}

	// берём на одну запись больше, чтобы понять, есть ли следующая страница
	items, err := s.repo.ListByUser(ctx, userID, after, limit+1)
	if err != nil {
		return HistoryPage{}, err
	}

	page := HistoryPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.NextCursor = models.CursorAfter(page.Items[limit-1]).Encode()
	}
	return page, nil
}

// Get возвращает запись истории пользователя по id.
func (s *CalculationsService) Get(ctx context.Context, userID, id uuid.UUID) (models.Calculation, error) {
	return s.repo.GetByID(ctx, userID, id)
}
