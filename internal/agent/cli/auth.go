package cli

import (
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
)

var errNotLoggedIn = errors.New("not logged in, run: calc login")

// withAuth вызывает fn с access токеном.
//
// Если сервер ответил 401 и есть refresh токен, пара токенов обновляется
// и fn вызывается ещё один раз.
func withAuth(app *App, fn func(c *api.Client, token string) error) error {
	if !app.Creds.LoggedIn() {
		return errNotLoggedIn
	}

	c := app.Client()
	err := fn(c, app.Creds.AccessToken)
	if !api.IsStatus(err, http.StatusUnauthorized) || app.Creds.RefreshToken == "" {
		return err
	}

	if rerr := refreshTokens(app); rerr != nil {
		// исходная ошибка понятнее пользователю
		return err
	}
	return fn(c, app.Creds.AccessToken)
}
