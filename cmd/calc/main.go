// Package main содержит точку входа клиентского CLI-приложения calc.
//
// Пакет передаёт информацию о версии и дате сборки в CLI-слой приложения.
// Значения подставляются при сборке:
//
//	go build -ldflags "-X main.buildVersion=1.0.0 -X main.buildDate=2026-10-19" ./cmd/calc
package main

import "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/cli"

var (
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
