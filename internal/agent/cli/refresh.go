package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
)

// errNoRefreshToken — в локальном конфиге нет refresh токена.
var errNoRefreshToken = errors.New("no refresh_token in config, run: calc login")

// NewRefreshCmd создаёт CLI-команду для обновления пары токенов.
//
// Команда использует сохранённый refresh токен для получения
// новой пары access/refresh токенов с сервера.
// Обновлённые токены сохраняются в локальный конфигурационный файл.
//
// Пример использования:
//
//	calc refresh
func NewRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Обновить access токен по refresh токену",
		Long: `Обновляет access token по refresh token.

Пример:
  calc refresh
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := refreshTokens(app); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}

	return cmd
}

// refreshTokens получает новую пару токенов и сохраняет её локально.
func refreshTokens(app *App) error {
	if app.Creds.RefreshToken == "" {
		return errNoRefreshToken
	}

	// генерирует новый jwt по refresh
	resp, err := app.Client().Refresh(app.Creds.RefreshToken)
	if err != nil {
		return err
	}
	// сохраняет в структуру
	app.Creds.AccessToken = resp.Token
	app.Creds.RefreshToken = resp.RefreshToken
	app.Creds.ExpiresAt = resp.ExpiresAt
	// сохраняет локально
	return config.Save(app.CredsPath, app.Creds)
}
