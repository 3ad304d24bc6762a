package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// ограничения на учётные данные
const (
	minPasswordLen = 8
	maxPasswordLen = 128
	maxEmailLen    = 255
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация и проверка учётных данных
//   - выпуск access / refresh токенов
//   - проверка access токенов (подпись + маркер в Redis)
//   - обновление access токенов по refresh с rotation и reuse detection
//   - logout
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo
	tokens   TokensRepo

	hasher crypto.PasswordHasher
	jwt    crypto.JWTConfig

	refreshTTL        time.Duration
	rotateRefresh     bool
	reuseDetection    bool
	requireComplexity bool
}

// RegisterInput — данные регистрации.
//
// Email необязателен; если задан, по нему тоже можно входить.
// ConfirmPassword проверяется, только если передан.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // срок жизни access токена
}

// Principal — аутентифицированный владелец запроса.
type Principal struct {
	UserID  uuid.UUID
	TokenID string // jti access токена
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
//
// tokens может быть nil: тогда токены проверяются только по подписи
// и logout отзывает лишь refresh-сессии.
func NewAuthService(users UsersRepo, sessions SessionsRepo, tokens TokensRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,

		hasher: newHasher(cfg.Password),
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},

		refreshTTL:        cfg.Auth.RefreshTTL,
		rotateRefresh:     cfg.Auth.Sessions.RotateRefresh,
		reuseDetection:    cfg.Auth.Sessions.ReuseDetection,
		requireComplexity: cfg.Password.RequireComplexity,
	}
}

func newHasher(cfg config.PasswordConfig) crypto.PasswordHasher {
	if strings.EqualFold(cfg.Hasher, "bcrypt") {
		return crypto.BcryptHasher{Cost: cfg.Bcrypt.Cost}
	}
	return crypto.Argon2Hasher{Params: crypto.Argon2Params{
		Time:      cfg.Argon2.Time,
		MemoryKiB: cfg.Argon2.MemoryKiB,
		Threads:   cfg.Argon2.Threads,
		KeyLen:    cfg.Argon2.KeyLen,
		SaltLen:   cfg.Argon2.SaltLen,
	}}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - username: 3..50 символов из [A-Za-z0-9_.-]
//   - email: адрес без имени, до 255 символов, хранится в нижнем регистре
//   - пароль: 8..128 символов после обрезки пробелов, при password.require_complexity
//     ещё заглавная и строчная буква, цифра и спецсимвол
//   - confirm_password совпадает с паролем
//
// Ошибки:
//   - ErrInvalidInput при некорректных данных (с уточнением после ": ")
//   - ErrAlreadyExists если username или email заняты
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	if !usernameRe.MatchString(username) {
		return models.User{}, fmt.Errorf("%w: username must be 3-50 characters of letters, digits, '_', '.', '-'", serr.ErrInvalidInput)
	}
	if email != "" && !validEmail(email) {
		return models.User{}, fmt.Errorf("%w: invalid email", serr.ErrInvalidInput)
	}
	if err := s.checkPassword(password); err != nil {
		return models.User{}, err
	}
	if in.ConfirmPassword != "" && strings.TrimSpace(in.ConfirmPassword) != password {
		return models.User{}, fmt.Errorf("%w: passwords do not match", serr.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}

	id, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Username: username, Email: email, IsActive: true}, nil
}

// checkPassword проверяет длину и, если включено, состав пароля.
func (s *AuthService) checkPassword(password string) error {
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: password must be 8-128 characters", serr.ErrInvalidInput)
	}
	if !s.requireComplexity {
		return nil
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	switch {
	case !upper:
		return fmt.Errorf("%w: password must contain an uppercase letter", serr.ErrInvalidInput)
	case !lower:
		return fmt.Errorf("%w: password must contain a lowercase letter", serr.ErrInvalidInput)
	case !digit:
		return fmt.Errorf("%w: password must contain a digit", serr.ErrInvalidInput)
	case !special:
		return fmt.Errorf("%w: password must contain a special character", serr.ErrInvalidInput)
	}
	return nil
}

// validEmail принимает только голый адрес: "a@b.c", без "Name <a@b.c>".
func validEmail(email string) bool {
	if len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Verify проверяет учётные данные и возвращает пользователя.
// login — username или email.
//
// Неизвестный login и неверный пароль неразличимы: ErrInvalidCredentials.
// Отключённая учётная запись с верным паролем — ErrInactiveUser.
func (s *AuthService) Verify(ctx context.Context, login, password string) (models.User, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return models.User{}, serr.ErrInvalidInput
	}

	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		// не палим существование пользователя
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return models.User{}, serr.ErrInternal
	}
	if !ok {
		return models.User{}, serr.ErrInvalidCredentials
	}
	if !u.IsActive {
		return models.User{}, serr.ErrInactiveUser
	}

	u.PasswordHash = ""
	return u, nil
}

// Login аутентифицирует пользователя, отмечает last_login и выдаёт пару токенов.
//
// Access токен выпускается последним: если не удалось сохранить refresh-сессию,
// в Redis не остаётся маркера токена, который клиент так и не получил.
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
//   - ErrInactiveUser
func (s *AuthService) Login(ctx context.Context, login, password string) (TokenPair, error) {
	u, err := s.Verify(ctx, login, password)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return TokenPair{}, err
	}

	// создаём новый refresh токен
	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	// в БД только хэш
	if _, err := s.sessions.Create(ctx, u.ID, crypto.HashRefreshToken(refresh), time.Now().Add(s.refreshTTL)); err != nil {
		return TokenPair{}, err
	}

	access, err := s.issueAccess(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access.Token, RefreshToken: refresh, ExpiresAt: access.ExpiresAt}, nil
}

// issueAccess подписывает access токен и, если включено, ставит маркер в Redis.
func (s *AuthService) issueAccess(ctx context.Context, userID uuid.UUID) (crypto.AccessToken, error) {
	access, err := crypto.NewAccessToken(userID.String(), s.jwt)
	if err != nil {
		return crypto.AccessToken{}, serr.ErrInternal
	}
	if s.tokens != nil {
		if err := s.tokens.Put(ctx, access.ID, userID, s.jwt.AccessTTL); err != nil {
			return crypto.AccessToken{}, serr.ErrInternal
		}
	}
	return access, nil
}

// Authenticate проверяет access токен.
//
// Ошибки:
//   - ErrTokenExpired — срок жизни истёк
//   - ErrInvalidToken — подпись/claims некорректны, маркер отсутствует (logout)
//     или пользователь удалён
//   - ErrInactiveUser — учётная запись отключена
//   - ErrInternal — Redis или БД недоступны
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := crypto.ParseAccessToken(token, s.jwt)
	if err != nil {
		return Principal{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, serr.ErrInvalidToken
	}

	if s.tokens != nil {
		owner, err := s.tokens.Owner(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				return Principal{}, serr.ErrInvalidToken
			}
			return Principal{}, serr.ErrInternal
		}
		if owner != userID {
			return Principal{}, serr.ErrInvalidToken
		}
	}

	if err := s.ensureActive(ctx, userID); err != nil {
		return Principal{}, err
	}

	return Principal{UserID: userID, TokenID: claims.ID}, nil
}

// ensureActive проверяет, что владелец токена существует и не отключён.
func (s *AuthService) ensureActive(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return serr.ErrInvalidToken
	case err != nil:
		return serr.ErrInternal
	case !u.IsActive:
		return serr.ErrInactiveUser
	}
	return nil
}

// Refresh обновляет access токен по refresh токену.
//
// Поддерживает:
//   - rotation refresh токенов (атомарно, см. SessionsRepo.Rotate)
//   - reuse detection: предъявлен отозванный токен или параллельный запрос
//     уже провернул ротацию по тому же токену, отзываются все сессии пользователя
//
// Access токен выпускается после записи сессий, поэтому при ошибке ротации
// не остаётся действующего токена без владельца.
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrUnauthorized
//   - ErrInactiveUser
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	sess, err := s.sessions.GetByRefreshHash(ctx, crypto.HashRefreshToken(refreshToken))
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now()
	if sess.ExpiresAt.Before(now) {
		return TokenPair{}, serr.ErrUnauthorized
	}

	// если токен уже отозван — значит кто-то пытается переиспользовать
	if sess.RevokedAt != nil {
		return TokenPair{}, s.reused(ctx, sess.UserID)
	}

	if err := s.ensureActive(ctx, sess.UserID); err != nil {
		if errors.Is(err, serr.ErrInvalidToken) {
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}

	pair := TokenPair{RefreshToken: refreshToken}

	if s.rotateRefresh {
		newRefresh, err := crypto.NewRefreshToken()
		if err != nil {
			return TokenPair{}, serr.ErrInternal
		}

		_, err = s.sessions.Rotate(ctx, sess, crypto.HashRefreshToken(newRefresh), now.Add(s.refreshTTL))
		if err != nil {
			// сессию успели отозвать между чтением и ротацией
			if errors.Is(err, serr.ErrUnauthorized) {
				return TokenPair{}, s.reused(ctx, sess.UserID)
			}
			return TokenPair{}, err
		}
		pair.RefreshToken = newRefresh
	}

	access, err := s.issueAccess(ctx, sess.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	pair.AccessToken = access.Token
	pair.ExpiresAt = access.ExpiresAt

	return pair, nil
}

// reused реагирует на повторное предъявление refresh токена.
func (s *AuthService) reused(ctx context.Context, userID uuid.UUID) error {
	if s.reuseDetection {
		if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
			return err
		}
	}
	return serr.ErrUnauthorized
}

// Logout удаляет маркер текущего access токена и отзывает все refresh-сессии пользователя.
// Другие уже выданные access токены живут до своего exp или до удаления их маркеров.
func (s *AuthService) Logout(ctx context.Context, p Principal) error {
	if s.tokens != nil && p.TokenID != "" {
		if err := s.tokens.Delete(ctx, p.TokenID); err != nil {
			return err
		}
	}
	return s.sessions.RevokeAllForUser(ctx, p.UserID)
}
