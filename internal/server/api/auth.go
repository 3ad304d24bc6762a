// HTTP-хендлеры регистрации, логина, refresh токенов и logout
package api

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// tokenType — тип токена в ответе логина.
const tokenType = "bearer"

// CredentialsRequest описывает тело запроса входа.
// В username можно передать и email, указанный при регистрации.
type CredentialsRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret123"`
}

// RegisterRequest описывает тело запроса регистрации.
// email и confirm_password необязательны.
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email,omitempty" example:"alice@example.com"`
	Password        string `json:"password" example:"Secret123!"`
	ConfirmPassword string `json:"confirm_password,omitempty" example:"Secret123!"`
}

// RegisterResponse описывает успешный ответ регистрации.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse описывает пару токенов в ответе login и refresh.
type TokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"bearer"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func tokenResponse(p service.TokenPair) TokenResponse {
	return TokenResponse{
		Token:        p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    tokenType,
		ExpiresAt:    p.ExpiresAt.UTC(),
	}
}

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Username, optional email, password"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} ErrorResponse "Bad JSON"
// @Failure      409 {object} ErrorResponse "Username or email already taken"
// @Failure      422 {object} ErrorResponse "Validation error"
// @Failure      429 {object} ErrorResponse "Too many requests"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{UserID: u.ID.String(), Username: u.Username, Email: u.Email})
}

// Login обрабатывает вход пользователя и выдачу пары токенов.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Username or email and password"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} ErrorResponse "Bad JSON"
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Failure      403 {object} ErrorResponse "Inactive user"
// @Failure      422 {object} ErrorResponse "Validation error"
// @Failure      429 {object} ErrorResponse "Too many requests"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	pair, err := h.Svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(pair))
}

// Refresh обрабатывает обновление access-токена по refresh-токену.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} ErrorResponse "Bad JSON"
// @Failure      401 {object} ErrorResponse "Refresh token invalid, expired or revoked"
// @Failure      403 {object} ErrorResponse "Inactive user"
// @Failure      422 {object} ErrorResponse "Validation error"
// @Failure      429 {object} ErrorResponse "Too many requests"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, "refresh", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(pair))
}

// Logout отзывает текущий access токен и все refresh-сессии пользователя.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, serr.ErrUnauthorized)
		return
	}

	if err := h.Svc.Auth.Logout(r.Context(), p); err != nil {
		h.fail(w, r, "logout", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
