// В этом файле описаны методы клиента для работы
// с эндпоинтами аутентификации: регистрация, вход, обновление токена и выход.
package api

import "time"

// CredentialsRequest описывает тело запроса входа.
// В Username можно передать и email.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest описывает тело запроса регистрации.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// RegisterResponse описывает ответ сервера при успешной регистрации.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse описывает пару токенов в ответе /login и /refresh.
//
// Token используется для авторизации запросов к защищённым эндпоинтам.
// RefreshToken используется для обновления пары токенов через /refresh.
type TokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register выполняет регистрацию пользователя на сервере.
func (c *Client) Register(req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.PostJSON("/register", req, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает пару токенов.
func (c *Client) Login(username, password string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON("/login", CredentialsRequest{Username: username, Password: password}, &resp, "")
	return resp, err
}

// Refresh обновляет пару токенов по refresh токену.
func (c *Client) Refresh(refreshToken string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON("/refresh", RefreshRequest{RefreshToken: refreshToken}, &resp, "")
	return resp, err
}

// Logout отзывает access токен и refresh-сессии пользователя на сервере.
func (c *Client) Logout(accessToken string) error {
	return c.PostJSON("/logout", nil, nil, accessToken)
}
