package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя в систему.
//
// Команда выполняет аутентификацию пользователя на сервере CalcKeeper,
// получает пару access/refresh токенов и сохраняет их в локальный
// конфигурационный файл.
//
// Пример использования:
//
//	calc login --username alice --password secret123
//
// При ошибке входа файл с учётными данными не изменяется.
func NewLoginCmd(app *App) *cobra.Command {
	var username string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access/refresh токены)",
		Long: `Логин пользователя.

Пример:
  calc login --username alice --password secret123
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			// выполняем логин пользователя
			resp, err := app.Client().Login(username, password)
			if err != nil {
				return err
			}

			// сохраняем полученные токены в состоянии приложения
			app.Creds.Username = username
			app.Creds.AccessToken = resp.Token
			app.Creds.RefreshToken = resp.RefreshToken
			app.Creds.ExpiresAt = resp.ExpiresAt

			// сохраняем токены в локальный конфигурационный файл
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username for login")
	pw.bind(cmd)
	cmd.MarkFlagRequired("username")

	return cmd
}
