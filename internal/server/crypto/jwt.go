// Package crypto содержит криптографические примитивы,
// используемые сервером CalcKeeper.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и разбор JWT access-токенов;
//   - хэширование паролей (argon2id, bcrypt);
//   - генерацию и хэширование refresh-токенов.
package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// TokenTypeAccess — значение claim typ у access-токена.
const TokenTypeAccess = "access"

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// AccessClaims — claims access-токена.
type AccessClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// AccessToken — подписанный токен и его метаданные.
type AccessToken struct {
	Token     string
	ID        string // jti
	ExpiresAt time.Time
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит стандартные RegisteredClaims:
//   - iss (Issuer)
//   - aud (Audience)
//   - sub (userID)
//   - jti (случайный UUID, по нему токен отзывается)
//   - iat (IssuedAt)
//   - exp (ExpiresAt)
//
// и claim typ=access. Используется алгоритм подписи HS256.
func NewAccessToken(userID string, cfg JWTConfig) (AccessToken, error) {
	now := time.Now()
	exp := now.Add(cfg.AccessTTL)
	jti := uuid.NewString()

	claims := AccessClaims{
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.SigningKey))
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign token: %w", err)
	}

	return AccessToken{Token: signed, ID: jti, ExpiresAt: exp}, nil
}

// ParseAccessToken проверяет подпись и claims токена.
//
// Истёкший токен — serr.ErrTokenExpired, всё остальное
// (подпись, алгоритм, iss/aud, typ, пустые sub/jti) — serr.ErrInvalidToken.
func ParseAccessToken(token string, cfg JWTConfig) (*AccessClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var claims AccessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, serr.ErrTokenExpired
		}
		return nil, serr.ErrInvalidToken
	}

	if claims.Type != TokenTypeAccess || claims.Subject == "" || claims.ID == "" {
		return nil, serr.ErrInvalidToken
	}
	return &claims, nil
}
