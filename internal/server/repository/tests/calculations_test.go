package tests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

var calcColumns = []string{"id", "user_id", "operation", "operand_a", "operand_b", "result", "created_at"}

// Успешная запись
func TestCalculationsRepository_Create_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	userID := uuid.New()
	id := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO calculations`).
		WithArgs(userID, "add", 2.0, 3.0, 5.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), created))

	got, err := repo.Create(context.Background(), models.Calculation{
		UserID: userID, Operation: "add", A: 2, B: 3, Result: 5,
	})
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, created, got.CreatedAt)
	require.Equal(t, 5.0, got.Result)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Пользователь не существует
func TestCalculationsRepository_Create_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	mock.ExpectQuery(`INSERT INTO calculations`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err = repo.Create(context.Background(), models.Calculation{UserID: uuid.New(), Operation: "add"})
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestCalculationsRepository_Create_InternalError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	mock.ExpectQuery(`INSERT INTO calculations`).
		WillReturnError(sql.ErrConnDone)

	_, err = repo.Create(context.Background(), models.Calculation{UserID: uuid.New(), Operation: "add"})
	require.ErrorIs(t, err, serr.ErrInternal)
}

// Первая страница: без курсора
func TestCalculationsRepository_ListByUser_FirstPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, user_id, operation, operand_a, operand_b, result, created_at\s+FROM calculations\s+WHERE user_id = \$1\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$2`).
		WithArgs(userID, 3).
		WillReturnRows(sqlmock.NewRows(calcColumns).
			AddRow(id1.String(), userID.String(), "multiply", 2.0, 4.0, 8.0, now).
			AddRow(id2.String(), userID.String(), "add", 2.0, 3.0, 5.0, now.Add(-time.Second)))

	items, err := repo.ListByUser(context.Background(), userID, nil, 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, id1, items[0].ID)
	require.Equal(t, "add", items[1].Operation)
	require.Equal(t, userID, items[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Следующая страница: с курсором
func TestCalculationsRepository_ListByUser_AfterCursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	userID := uuid.New()
	cur := models.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}

	mock.ExpectQuery(`AND \(created_at, id\) < \(\$2, \$3\)`).
		WithArgs(userID, cur.CreatedAt, cur.ID, 10).
		WillReturnRows(sqlmock.NewRows(calcColumns))

	items, err := repo.ListByUser(context.Background(), userID, &cur, 10)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculationsRepository_ListByUser_InternalError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	mock.ExpectQuery(`FROM calculations`).
		WillReturnError(sql.ErrConnDone)

	_, err = repo.ListByUser(context.Background(), uuid.New(), nil, 10)
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestCalculationsRepository_GetByID_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	userID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows(calcColumns).
			AddRow(id.String(), userID.String(), "divide", 10.0, 4.0, 2.5, time.Now()))

	c, err := repo.GetByID(context.Background(), userID, id)
	require.NoError(t, err)
	require.Equal(t, 2.5, c.Result)
}

// Чужая или отсутствующая запись
func TestCalculationsRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCalculationsRepository(db)

	mock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, serr.ErrNotFound)
}
