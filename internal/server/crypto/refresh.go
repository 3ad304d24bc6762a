package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// refreshTokenBytes — 256 бит случайности.
const refreshTokenBytes = 32

// NewRefreshToken генерирует непрозрачный refresh-токен (base64url без паддинга).
// Клиент получает сам токен, в таблицу sessions пишется только его хэш.
func NewRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashRefreshToken — sha256 от токена, под этим ключом ищется сессия.
func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
