// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое (см. api.StatusFor).
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например username уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// конфликт версий(к примеру при обновлении в бд)
	ErrConflict = errors.New("conflict")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
	// превышен лимит запросов
	ErrTooManyRequests = errors.New("too many requests")
)

// токены
var (
	// срок жизни токена истёк
	ErrTokenExpired = errors.New("token expired")
	// подпись, claims или тип токена некорректны, либо токен отозван
	ErrInvalidToken = errors.New("invalid token")
	// учётная запись отключена (users.is_active = false)
	ErrInactiveUser = errors.New("inactive user")
)

// только для вычислений
var (
	ErrDivisionByZero       = errors.New("division by zero")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidCursor        = errors.New("invalid cursor")
)
