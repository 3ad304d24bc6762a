package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Для выполнения команды необходимо указать флаг --username, --email необязателен
// (по нему тоже можно входить). Пароль берётся из --password, из stdin
// (--password-stdin) или запрашивается интерактивно.
//
// Пример использования:
//
//	calc register --username alice --password secret123
func NewRegisterCmd(app *App) *cobra.Command {
	var username, email string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  calc register --username alice --password secret123
  calc register --username alice --email alice@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			// выполняет добавление нового пользователя в бд
			resp, err := app.Client().Register(api.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful: %s (id %s)\n", resp.Username, resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username for registration")
	cmd.Flags().StringVar(&email, "email", "", "optional email, can be used to log in")
	pw.bind(cmd)
	cmd.MarkFlagRequired("username")

	return cmd
}
