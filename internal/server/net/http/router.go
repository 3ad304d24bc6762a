// Package http реализует маршрутизацию HTTP-слоя сервера CalcKeeper.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов и сбор метрик;
//   - ограничение частоты запросов на публичные auth-ручки;
//   - выполняет проверку JWT access-токенов;
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/middleware"
)

// Options — необязательные параметры роутера.
type Options struct {
	// MaxBodyBytes — лимит размера тела запроса, 0 — без лимита.
	MaxBodyBytes int64
	// RateLimiter — nil отключает rate limit.
	RateLimiter *middleware.RedisRateLimiter
	// RateLimit запросов с одного IP за RateLimitWindow на /register и /login.
	RateLimit       int
	RateLimitWindow time.Duration
	// MetricsPath — путь экспорта метрик, по умолчанию /metrics.
	MetricsPath string
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные эндпоинты /register, /login, /refresh, /health;
//   - middleware логирования и метрик для всех запросов;
//   - группу защищённых JWT эндпоинтов вычислений и истории.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	// паника в обработчике превращается в 500, а не в обрыв соединения
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(h.Metrics.Middleware())
	if opts.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(opts.MaxBodyBytes))
	}

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health)
	if h.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, h.Metrics.Handler())
	}

	limit := func(route string) func(http.Handler) http.Handler {
		return middleware.RateLimit(opts.RateLimiter, route, opts.RateLimit, opts.RateLimitWindow, h.Metrics)
	}

	// Публичные пути
	r.With(limit("register")).Post("/register", h.Register)
	r.With(limit("login")).Post("/login", h.Login)
	r.With(limit("refresh")).Post("/refresh", h.Refresh)

	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Post("/logout", h.Logout)
		r.Post("/calculate", h.Calculate)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History)
			r.Get("/{id}", h.GetCalculation)
		})
	})

	return r
}
