// Package cli реализует командный интерфейс (CLI) клиентского приложения CalcKeeper.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки, переменных окружения CALC_*;
//   - загрузку локальных учётных данных (access/refresh токены) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
)

// DefaultServerURL — адрес сервера по умолчанию.
const DefaultServerURL = "http://127.0.0.1:8080"

// ключи viper; переменные окружения: CALC_SERVER, CALC_INSECURE, CALC_CREDENTIALS
const (
	keyServer      = "server"
	keyInsecure    = "insecure"
	keyCredentials = "credentials"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся параметры подключения к серверу и загруженные учётные данные.
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера CalcKeeper (например, "http://127.0.0.1:8080").
	ServerURL string
	// Insecure отключает проверку TLS сертификата сервера.
	Insecure bool

	// CredsPath — путь к файлу с сохранёнными учётными данными (access/refresh токены).
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Creds *config.Credentials
}

// Client создаёт API-клиент с настройками приложения.
func (app *App) Client() *api.Client {
	var opts []api.Option
	if app.Insecure {
		opts = append(opts, api.WithInsecureTLS())
	}
	return NewAPIClient(app.ServerURL, opts...)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE выполняется инициализация состояния приложения:
// флаги и CALC_* переменные сводятся через viper, определяется путь к файлу
// учётных данных и загружаются сохранённые токены.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}
	v := viper.New()
	v.SetDefault(keyServer, DefaultServerURL)
	v.SetEnvPrefix("CALC")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "CalcKeeper CLI — калькулятор с историей вычислений",
		Long: `CalcKeeper CLI.

Команды:
  register  Регистрация нового пользователя
  login     Логин (получить access/refresh)
  refresh   Обновить access по refresh токену
  logout    Выйти и отозвать токены
  compute   Выполнить вычисление: compute <op> <a> <b>
  history   История вычислений или одна запись: history [id]
  version   Версия и дата сборки

Примеры:

Регистрация и логин:
  calc register --username alice --password secret123
  calc login --username alice --password secret123
  (сохраняет access и refresh токены в ~/.calckeeper/credentials.json)

Вычисления:
  calc compute add 2 3
  calc compute divide 10 4

История:
  calc history --limit 10
  calc history <id>

Адрес сервера задаётся флагом --server или переменной CALC_SERVER.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.ServerURL = strings.TrimSpace(v.GetString(keyServer))
			app.Insecure = v.GetBool(keyInsecure)

			p := v.GetString(keyCredentials)
			if p == "" {
				var err error
				if p, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			app.CredsPath = p

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return fmt.Errorf("load credentials %s: %w", app.CredsPath, err)
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	flags := cmd.PersistentFlags()
	flags.String(keyServer, DefaultServerURL, "server base URL (env CALC_SERVER)")
	flags.Bool(keyInsecure, false, "skip TLS certificate verification (env CALC_INSECURE)")
	flags.String(keyCredentials, "", "credentials file, default ~/.calckeeper/credentials.json (env CALC_CREDENTIALS)")
	_ = v.BindPFlag(keyServer, flags.Lookup(keyServer))
	_ = v.BindPFlag(keyInsecure, flags.Lookup(keyInsecure))
	_ = v.BindPFlag(keyCredentials, flags.Lookup(keyCredentials))

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewComputeCmd(app))
	cmd.AddCommand(NewHistoryCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
