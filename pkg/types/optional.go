package types

import (
	"bytes"
	"encoding/json"
)

// Optional значение для частичных обновлений (PATCH)
// Различает три состояния:
// - поле не передано (IsSet() == false)
// - поле передано как null (IsNull() == true)
// - поле передано со значением (Get() возвращает значение)
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

// Some создает Optional с установленным значением
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Null создает Optional, явно установленный в null
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsSet возвращает true, если поле было передано (включая null)
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsNull возвращает true, если поле было передано как null
func (o Optional[T]) IsNull() bool {
	return o.set && o.null
}

// Get возвращает значение и признак его наличия
func (o Optional[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Ptr возвращает указатель на значение или nil для null/отсутствующего поля
func (o Optional[T]) Ptr() *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

// UnmarshalJSON вызывается только для присутствующих в теле ключей
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON сериализует null для отсутствующего или null значения
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
