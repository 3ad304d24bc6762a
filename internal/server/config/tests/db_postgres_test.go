package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
)

// Тест с мок-базой данных через DI
func TestDatabaseInjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	var x int
	err = db.QueryRow(`SELECT 1`).Scan(&x)
	require.NoError(t, err)
	require.Equal(t, 1, x)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Интеграционный тест с настоящей DB
func TestOpenPostgres_WithDSN(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping integration test")
	}

	db, err := config.OpenPostgres(context.Background(), config.DBConfig{DSN: dsn, MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var x int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&x))
	require.Equal(t, 1, x)
}

func TestOpenRedis_Pings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := config.OpenRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := config.OpenRedis(context.Background(), config.RedisConfig{
		Addr:        addr,
		DialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
}
