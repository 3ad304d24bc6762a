package tests

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/repository"
)

func TestHealthRepository_Ping_OK(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	mock.ExpectPing()

	repo := repository.NewHealthRepository(db, rdb)
	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthRepository_Ping_DBDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	repo := repository.NewHealthRepository(db, nil)
	require.Error(t, repo.Ping(context.Background()))
}

func TestHealthRepository_Ping_RedisDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	mock.ExpectPing()

	repo := repository.NewHealthRepository(db, rdb)
	require.Error(t, repo.Ping(context.Background()))
}
