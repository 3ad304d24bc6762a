package cli

import (
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = readPassword
)
