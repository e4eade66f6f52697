package model

// Optional — явное «поле передано / не передано» для частичных обновлений.
// Нулевое значение означает «не передано».
type Optional[T any] struct {
	value T
	set   bool
}

// Some возвращает переданное значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet сообщает, что значение передано.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or возвращает значение или fallback, если оно не передано.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}
