package tests

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
)

// newApp создаёт состояние CLI с временным файлом учётных данных.
func newApp(t *testing.T, serverURL string, creds *config.Credentials) *cli.App {
	t.Helper()
	if creds == nil {
		creds = &config.Credentials{}
	}
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     creds,
	}
}

// run выполняет команду и возвращает её вывод.
func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
