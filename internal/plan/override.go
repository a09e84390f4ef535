package plan

import (
	"bytes"
	"encoding/json"
)

// Override is a per-field progression value: either inherit the row's base
// value or replace it. The zero value inherits.
type Override[T any] struct {
	value T
	set   bool
}

// Set returns an override that replaces the base value with v.
func Set[T any](v T) Override[T] {
	return Override[T]{value: v, set: true}
}

// Inherit returns an override that keeps the base value.
func Inherit[T any]() Override[T] {
	return Override[T]{}
}

// Get returns the override value and whether one is set.
func (o Override[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the override replaces the base value.
func (o Override[T]) IsSet() bool {
	return o.set
}

// IsZero lets `omitzero` drop inherited fields from JSON output.
func (o Override[T]) IsZero() bool {
	return !o.set
}

// MarshalJSON encodes an inherited field as null.
func (o Override[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats null (or an absent field) as inherit.
func (o *Override[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Override[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Override[T]{value: v, set: true}
	return nil
}
