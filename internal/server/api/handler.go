// Package api реализует HTTP-слой сервера CalcKeeper.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - явную валидацию тел запросов до вызова сервисов;
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse = middleware.ErrorResponse

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Stores: проверка доступности хранилищ для /health;
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: middleware проверки access токенов;
//   - Metrics: Prometheus-метрики (может быть nil).
type Handler struct {
	Svc      *service.Services
	Stores   service.HealthRepo
	Log      *logger.HTTPLogger
	Verifier *middleware.TokenVerifier
	Metrics  *middleware.Metrics
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, stores service.HealthRepo, log *logger.HTTPLogger, verifier *middleware.TokenVerifier, metrics *middleware.Metrics) *Handler {
	return &Handler{
		Svc:      svc,
		Stores:   stores,
		Log:      log,
		Verifier: verifier,
		Metrics:  metrics,
	}
}

// errorStatuses — соответствие доменных ошибок HTTP-статусам.
// Порядок важен: берётся первое совпадение по errors.Is.
var errorStatuses = []struct {
	err    error
	status int
}{
	{serr.ErrBadJSON, http.StatusBadRequest},
	{serr.ErrDivisionByZero, http.StatusBadRequest},
	{serr.ErrInvalidInput, http.StatusUnprocessableEntity},
	{serr.ErrUnsupportedOperation, http.StatusUnprocessableEntity},
	{serr.ErrInvalidCursor, http.StatusUnprocessableEntity},
	{serr.ErrInvalidCredentials, http.StatusUnauthorized},
	{serr.ErrTokenExpired, http.StatusUnauthorized},
	{serr.ErrInvalidToken, http.StatusUnauthorized},
	{serr.ErrUnauthorized, http.StatusUnauthorized},
	{serr.ErrInactiveUser, http.StatusForbidden},
	{serr.ErrNotFound, http.StatusNotFound},
	{serr.ErrAlreadyExists, http.StatusConflict},
	{serr.ErrConflict, http.StatusConflict},
	{serr.ErrTooManyRequests, http.StatusTooManyRequests},
}

// StatusFor возвращает HTTP-статус и безопасное сообщение для ошибки.
// Неизвестные ошибки — 500 "internal error", подробности клиенту не отдаются.
//
// Уточнение, добавленное сервисом как fmt.Errorf("%w: ...", sentinel),
// попадает в сообщение; любые другие обёртки отбрасываются.
func StatusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			if msg := err.Error(); strings.HasPrefix(msg, e.err.Error()+": ") {
				return e.status, msg
			}
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, serr.ErrInternal.Error()
}

// WriteError пишет ошибку в формате {"error": "..."} со статусом из StatusFor.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	middleware.JSONError(w, status, msg)
}

// writeJSON — успешный JSON-ответ.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса в dst. Любая ошибка разбора — ErrBadJSON.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return serr.ErrBadJSON
	}
	return nil
}

// fail логирует внутренние ошибки и пишет ответ.
// Ожидаемые доменные ошибки (4xx) не логируются.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if status, _ := StatusFor(err); status == http.StatusInternalServerError && h.Log != nil {
		fields := []any{"op", op, "error", err, "uri", r.RequestURI}
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			fields = append(fields, "user_id", userID.String())
		}
		h.Log.Logger.Sugar().Errorw("request failed", fields...)
	}
	WriteError(w, err)
}
