// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит учётные данные (access/refresh токены) и размещается
// в домашней директории пользователя в файле:
//
//	~/.calckeeper/credentials.json
//
// Пакет предоставляет функции для получения пути по умолчанию, загрузки, сохранения
// и удаления конфигурации в JSON формате.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Credentials содержит учётные данные, используемые CLI-клиентом.
//
// AccessToken применяется для авторизации запросов к серверу.
// RefreshToken применяется для обновления пары токенов.
type Credentials struct {
	Username     string    `json:"username,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// LoggedIn сообщает, есть ли сохранённый access токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.AccessToken != ""
}

// DefaultPath возвращает путь к конфигурационному файлу в домашней директории пользователя.
//
// Формат пути:
//
//	<home>/.calckeeper/credentials.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".calckeeper", "credentials.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
// Если файл существует, но содержит некорректный JSON, возвращает ошибку.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// дефолтный конфиг, если файла нет
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет конфигурацию в указанный файл в JSON формате.
//
// При необходимости создаёт директорию назначения с правами 0700.
// Файл конфигурации записывается с правами 0600.
func Save(path string, c *Credentials) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Clear удаляет файл с учётными данными. Отсутствие файла не ошибка.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
