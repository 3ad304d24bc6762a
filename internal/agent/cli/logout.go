package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
)

// NewLogoutCmd создаёт CLI-команду выхода.
//
// Сервер удаляет маркер access токена и отзывает refresh-сессии,
// локальный файл с учётными данными удаляется. Если токен на сервере
// уже недействителен (401), локальные данные всё равно удаляются.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выйти и отозвать токены",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Creds.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}

			err := app.Client().Logout(app.Creds.AccessToken)
			if err != nil && !api.IsStatus(err, http.StatusUnauthorized) {
				return err
			}

			if err := config.Clear(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}

			fmt.Fprintln(cmd.OutOrStdout(), "logout ok")
			return nil
		},
	}
}
