// Пакет model — доменные модели сервиса профилей.
// Identity и Detail — форматы записей на диске, Composite — производное
// представление для отображения, никогда не сохраняется.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value — слабо типизированное значение поля ревизии (level, experience).
// Хранит исходный JSON-токен как есть: число или строку. Повторная
// сериализация неизменённой записи даёт те же байты.
type Value struct {
	raw json.RawMessage
}

// StringValue создаёт строковое значение (так приходят поля из форм).
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// NumberValue создаёт числовое значение.
func NumberValue(n float64) Value {
	return Value{raw: json.RawMessage(strconv.FormatFloat(n, 'f', -1, 64))}
}

// IsZero — значение отсутствует. Используется тегом omitzero.
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

func (v Value) isString() bool {
	return len(v.raw) > 0 && v.raw[0] == '"'
}

// String возвращает строку без кавычек для строковых значений
// и JSON-текст для остальных.
func (v Value) String() string {
	if v.IsZero() {
		return ""
	}
	if v.isString() {
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}
	return string(v.raw)
}

// Number возвращает числовое представление: JSON-число или строку,
// содержащую число ("3", " 4.5 ").
func (v Value) Number() (float64, bool) {
	if v.IsZero() {
		return 0, false
	}
	s := string(v.raw)
	if v.isString() {
		s = strings.TrimSpace(v.String())
	}
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Greater сообщает, что v строго больше other.
// Числа сравниваются численно, две нечисловые строки — лексикографически,
// остальные пары несравнимы (false).
func (v Value) Greater(other Value) bool {
	a, aok := v.Number()
	b, bok := other.Number()
	if aok && bok {
		return a > b
	}
	if v.isString() && other.isString() && !aok && !bok {
		return v.String() > other.String()
	}
	return false
}

// MarshalJSON возвращает исходный токен; отсутствующее значение — null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON сохраняет токен без преобразований; null — отсутствие значения.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		v.raw = nil
		return nil
	}
	v.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}
