// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/logger"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// principalKey — ключ контекста, под которым хранится аутентифицированный пользователь.
const principalKey ctxKey = "principal"

// Authenticator проверяет access токен (реализуется service.AuthService).
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Principal, error)
}

// TokenVerifier — middleware проверки bearer токенов.
type TokenVerifier struct {
	auth Authenticator
	log  *logger.HTTPLogger
}

// NewTokenVerifier создаёт TokenVerifier.
func NewTokenVerifier(auth Authenticator, log *logger.HTTPLogger) *TokenVerifier {
	return &TokenVerifier{auth: auth, log: log}
}

// WithPrincipal кладёт пользователя в контекст.
func WithPrincipal(ctx context.Context, p service.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает false, если пользователь не аутентифицирован.
func PrincipalFromContext(ctx context.Context) (service.Principal, bool) {
	p, ok := ctx.Value(principalKey).(service.Principal)
	return p, ok
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return p.UserID, true
}

// AuthMiddleware возвращает HTTP middleware для проверки access токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - проверяет токен через Authenticator (подпись, claims, маркер в Redis)
//   - сохраняет Principal в context.Context
//
// Недействительный токен — 401, отключённый пользователь — 403, недоступное хранилище — 500.
// До обработчика запрос в этих случаях не доходит.
func (v *TokenVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				JSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			p, err := v.auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, serr.ErrTokenExpired):
					JSONError(w, http.StatusUnauthorized, serr.ErrTokenExpired.Error())
				case errors.Is(err, serr.ErrInvalidToken), errors.Is(err, serr.ErrUnauthorized):
					JSONError(w, http.StatusUnauthorized, serr.ErrInvalidToken.Error())
				case errors.Is(err, serr.ErrInactiveUser):
					JSONError(w, http.StatusForbidden, serr.ErrInactiveUser.Error())
				default:
					if v.log != nil {
						v.log.Error("authenticate failed", zap.Error(err))
					}
					JSONError(w, http.StatusInternalServerError, serr.ErrInternal.Error())
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
