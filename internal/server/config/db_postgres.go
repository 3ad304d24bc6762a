package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// pingTimeout — сколько ждём ответа базы при старте.
const pingTimeout = 5 * time.Second

// OpenPostgres открывает пул соединений к PostgreSQL (драйвер pgx),
// настраивает его по секции db и проверяет доступность базы.
//
// Возвращённый *sql.DB принадлежит вызывающему: он передаётся
// в репозитории через конструкторы и закрывается при остановке сервера.
func OpenPostgres(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// RunMigrations применяет миграции golang-migrate из каталога source
// (например file://migrations/postgres).
//
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func RunMigrations(db *sql.DB, source string, log *zap.SugaredLogger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Errorf("error creating migration driver: %v", err)
		return err
	}

	// создаём миграции с выбранным драйвером
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		log.Errorf("error creating migrations: %v", err)
		return err
	}

	// запускаем миграции
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Errorf("error applying migrations: %v", err)
		return err
	}

	log.Info("migrations applied successfully")
	return nil
}
