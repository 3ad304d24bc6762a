package models

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Calculation — запись истории вычислений.
// Создаётся один раз и никогда не изменяется.
type Calculation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Operation string
	A         float64
	B         float64
	Result    float64
	CreatedAt time.Time
}

// Cursor — позиция в истории для keyset-пагинации.
// Следующая страница начинается строго после записи (CreatedAt, ID)
// в порядке created_at DESC, id DESC.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorAfter возвращает курсор, указывающий на запись c.
func CursorAfter(c Calculation) Cursor {
	return Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
}

// Encode кодирует курсор в непрозрачную строку: base64url("<unix_nanos>:<uuid>").
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor разбирает строку, полученную из Cursor.Encode.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}

	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Cursor{}, fmt.Errorf("cursor without separator")
	}

	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor time: %w", err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor id: %w", err)
	}

	return Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: uid}, nil
}
