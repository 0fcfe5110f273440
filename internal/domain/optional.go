package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is an input field that distinguishes three states: absent,
// present with JSON null, and present with a value. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
	null    bool
}

// Some returns a present, non-null Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Null returns a present Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// IsPresent reports whether the field was supplied at all.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool {
	return o.present && o.null
}

// Get returns the value and true when the field is present and not null.
func (o Optional[T]) Get() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Ptr returns a pointer to the value, or nil when the field is absent or null.
func (o Optional[T]) Ptr() *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

// UnmarshalJSON marks the field present and decodes the value unless it is null.
// encoding/json never calls this for keys missing from the object, which is
// what leaves absent fields in their zero state.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}
