// @title           CalcKeeper API
// @version         1.0
// @description     Calculator service with per-user calculation history.
// @description     Provides user authentication, arithmetic operations and history browsing.
// @termsOfService  https://example.com/terms

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin
// @contact.email  ivan@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения CalcKeeper.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (по умолчанию ./configs/server.yaml, путь можно задать CONFIG_PATH);
//   - подключение к Postgres, применение миграций и подключение к Redis;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера с заданными таймаутами (HTTPS, если включён tls);
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
// HTTP API сервера реализовано в пакете internal/server/api и документируется с помощью OpenAPI (Swagger).
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/repository"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-yandex-calckeeper/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	// до чтения конфига пишем в логгер по умолчанию
	sugar := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stdout: cfg.Log.Stdout,
	})
	defer httpLogger.Sync()
	sugar = httpLogger.Logger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных
	db, err := config.OpenPostgres(ctx, cfg.DB)
	if err != nil {
		sugar.Fatal(err)
	}
	// делаем отложенное закрытие бд
	defer db.Close()

	if cfg.Migrations.Enabled {
		if err := config.RunMigrations(db, cfg.Migrations.Path, sugar); err != nil {
			sugar.Fatal(err)
		}
	}

	// Redis нужен для маркеров токенов и rate limit
	var rdb *redis.Client
	if cfg.Auth.Revocation.Enabled || cfg.Security.RateLimit.Enabled {
		rdb, err = config.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			sugar.Fatal(err)
		}
		defer rdb.Close()
	}

	handler, opts := build(cfg, db, rdb, httpLogger)
	router := h.NewRouter(handler, opts)

	//создаём сервер
	addr := cfg.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			sugar.Infof("server started on https://%s", addr)
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			sugar.Infof("server started on http://%s", addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-gctx.Done()

		sugar.Info("shutdown signal received")

		// родительский контекст уже отменён, поэтому отсчёт от Background
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Errorf("server stopped with error: %v", err)
		return
	}
	sugar.Info("server gracefully stopped")
}

// build собирает репозитории, сервисы и обработчики.
func build(cfg *config.Config, db *sql.DB, rdb *redis.Client, log *logger.HTTPLogger) (*api.Handler, h.Options) {
	repos := service.Repositories{
		Users:        repository.NewUsersRepository(db),
		Sessions:     repository.NewSessionsRepository(db),
		Calculations: repository.NewCalculationsRepository(db),
	}
	if cfg.Auth.Revocation.Enabled {
		repos.Tokens = repository.NewTokensRepository(rdb, cfg.Auth.Revocation.Prefix)
	}
	svc := service.NewServices(repos, cfg)

	var metrics *middleware.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	verifier := middleware.NewTokenVerifier(svc.Auth, log)
	handler := api.NewHandler(svc, repository.NewHealthRepository(db, rdb), log, verifier, metrics)

	opts := h.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		MetricsPath:  cfg.Observability.Metrics.Path,
	}
	if cfg.Security.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRedisRateLimiter(rdb, log)
		opts.RateLimit = cfg.Security.RateLimit.Limit
		opts.RateLimitWindow = cfg.Security.RateLimit.Window
	}
	return handler, opts
}
