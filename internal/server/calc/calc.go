// Package calc — арифметическое ядро сервиса.
//
// Функции пакета чистые: не обращаются к хранилищам и для одинаковых
// аргументов всегда возвращают одинаковый результат. Переполнение и NaN
// не проверяются и распространяются по правилам IEEE 754.
package calc

import (
	"strings"

	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
)

// Operation — одна из четырёх поддерживаемых операций.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

// aliases — допустимые написания операций во входных данных.
var aliases = map[string]Operation{
	"add":            Add,
	"addition":       Add,
	"subtract":       Subtract,
	"subtraction":    Subtract,
	"multiply":       Multiply,
	"multiplication": Multiply,
	"divide":         Divide,
	"division":       Divide,
}

// ParseOperation приводит название операции к каноническому виду.
// Регистр и пробелы по краям не важны.
// Неизвестная операция — ErrUnsupportedOperation.
func ParseOperation(s string) (Operation, error) {
	op, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", serr.ErrUnsupportedOperation
	}
	return op, nil
}

// Operations возвращает канонические названия в фиксированном порядке.
func Operations() []Operation {
	return []Operation{Add, Subtract, Multiply, Divide}
}

func (o Operation) String() string {
	return string(o)
}

// Compute выполняет операцию op над a и b.
//
// Единственная проверяемая ситуация — деление на ноль (ErrDivisionByZero).
func Compute(op Operation, a, b float64) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, serr.ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, serr.ErrUnsupportedOperation
	}
}
