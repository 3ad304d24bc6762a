// Утилитарные функции общего назначения
package utils

// Ptr возвращает указатель на копию v.
// Удобно для опциональных полей запросов (например CalculateRequest.A).
func Ptr[T any](v T) *T {
	return &v
}
