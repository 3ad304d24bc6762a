package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

func newCalculationsService(t *testing.T) (*service.CalculationsService, *mocks.MockCalculationsRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCalculationsRepo(ctrl)

	svc := service.NewCalculationsService(repo, config.HistoryConfig{DefaultPageSize: 2, MaxPageSize: 5})
	return svc, repo
}

// Результат пишется в историю под канонической операцией
func TestCalculationsService_Calculate_OK(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCalculationsService(t)

	userID := uuid.New()

	repo.EXPECT().
		Create(ctx, models.Calculation{UserID: userID, Operation: "add", A: 2, B: 3, Result: 5}).
		DoAndReturn(func(_ context.Context, c models.Calculation) (models.Calculation, error) {
			c.ID = uuid.New()
			c.CreatedAt = time.Now()
			return c, nil
		})

	got, err := svc.Calculate(ctx, userID, "Addition", 2, 3)
	require.NoError(t, err)
	require.Equal(t, 5.0, got.Result)
	require.Equal(t, "add", got.Operation)
	require.NotEqual(t, uuid.Nil, got.ID)
}

// Деление на ноль: в историю ничего не пишется
func TestCalculationsService_Calculate_DivisionByZero_NoWrite(t *testing.T) {
	svc, repo := newCalculationsService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Calculate(context.Background(), uuid.New(), "divide", 5, 0)
	require.ErrorIs(t, err, serr.ErrDivisionByZero)
}

func TestCalculationsService_Calculate_UnsupportedOperation(t *testing.T) {
	svc, repo := newCalculationsService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Calculate(context.Background(), uuid.New(), "pow", 2, 3)
	require.ErrorIs(t, err, serr.ErrUnsupportedOperation)
}

func TestCalculationsService_Calculate_RepoError(t *testing.T) {
	svc, repo := newCalculationsService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Calculation{}, serr.ErrInternal)

	_, err := svc.Calculate(context.Background(), uuid.New(), "multiply", 2, 3)
	require.ErrorIs(t, err, serr.ErrInternal)
}

func records(userID uuid.UUID, n int) []models.Calculation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	out := make([]models.Calculation, n)
	for i := range out {
		out[i] = models.Calculation{
			ID:        uuid.New(),
			UserID:    userID,
			Operation: "add",
			A:         float64(i),
			B:         1,
			Result:    float64(i + 1),
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
	}
	return out
}

// Есть следующая страница: курсор указывает на последнюю выданную запись
func TestCalculationsService_History_NextCursor(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCalculationsService(t)

	userID := uuid.New()
	rows := records(userID, 3)

	// limit по умолчанию 2, запрашиваем на одну больше
	repo.EXPECT().ListByUser(ctx, userID, nil, 3).Return(rows, nil)

	page, err := svc.History(ctx, userID, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	cur, err := models.DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	require.Equal(t, rows[1].ID, cur.ID)
	require.True(t, rows[1].CreatedAt.Equal(cur.CreatedAt))
}

// Последняя страница: курсора нет
func TestCalculationsService_History_LastPage(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCalculationsService(t)

	userID := uuid.New()
	rows := records(userID, 1)
	after := models.Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}

	repo.EXPECT().
		ListByUser(ctx, userID, gomock.Cond(func(c *models.Cursor) bool {
			return c != nil && c.ID == after.ID && c.CreatedAt.Equal(after.CreatedAt)
		}), 3).
		Return(rows, nil)

	page, err := svc.History(ctx, userID, 2, after.Encode())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Empty(t, page.NextCursor)
}

// limit больше максимума обрезается
func TestCalculationsService_History_LimitCapped(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCalculationsService(t)

	userID := uuid.New()
	repo.EXPECT().ListByUser(ctx, userID, nil, 6).Return(nil, nil)

	page, err := svc.History(ctx, userID, 1000, "")
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func TestCalculationsService_History_InvalidInput(t *testing.T) {
	svc, _ := newCalculationsService(t)

	_, err := svc.History(context.Background(), uuid.New(), -1, "")
	require.ErrorIs(t, err, serr.ErrInvalidInput)

	_, err = svc.History(context.Background(), uuid.New(), 0, "%%%not-a-cursor")
	require.ErrorIs(t, err, serr.ErrInvalidCursor)
}

func TestCalculationsService_Get(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCalculationsService(t)

	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().GetByID(ctx, userID, id).Return(models.Calculation{}, serr.ErrNotFound)

	_, err := svc.Get(ctx, userID, id)
	require.ErrorIs(t, err, serr.ErrNotFound)
}
