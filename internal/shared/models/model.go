package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Number — число с плавающей точкой для HTTP API.
//
// encoding/json не умеет кодировать NaN и ±Inf, а переполнение при
// умножении честно даёт +Inf. Такие значения передаются строками
// "NaN", "+Inf", "-Inf"; обычные числа — как JSON number.
type Number float64

// MarshalJSON реализует json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON реализует json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*n = Number(math.NaN())
		case "+Inf", "Inf":
			*n = Number(math.Inf(1))
		case "-Inf":
			*n = Number(math.Inf(-1))
		default:
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// CalculationRecord — запись истории вычислений в HTTP API.
//
// Используется в:
//
//	POST /calculate
//	GET  /history
//	GET  /history/{id}
type CalculationRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Operation string    `json:"operation"`
	A         Number    `json:"a"`
	B         Number    `json:"b"`
	Result    Number    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// CalculateRequest — запрос на вычисление.
//
// A и B — указатели, чтобы отличить отсутствующий операнд от нуля.
type CalculateRequest struct {
	Operation string   `json:"operation"`
	A         *float64 `json:"a"`
	B         *float64 `json:"b"`
}

// NextCursorHeader — заголовок ответа GET /history с курсором следующей страницы.
// Пустой или отсутствующий заголовок означает, что страниц больше нет.
const NextCursorHeader = "X-Next-Cursor"
