// Package field provides request payload value types that keep track of
// whether a JSON key was sent, sent as null, or sent with a value.
package field

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional holds a decoded JSON value together with its presence.
// The zero value means the key was absent.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a present, non-null Optional.
func Of[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Get returns the value and whether the key carried a non-null value.
func (o Optional[T]) Get() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// String is an optional string field.
type String = Optional[string]

// Text returns the trimmed string value, or "" when absent or null.
func Text(o String) string {
	value, _ := o.Get()
	return strings.TrimSpace(value)
}

// Present reports whether the field carries a non-blank string.
func Present(o String) bool {
	return Text(o) != ""
}

// First returns the first of the given aliases that carries a non-blank value.
// Aliases are checked in order, so earlier names win.
func First(aliases ...String) (string, bool) {
	for _, alias := range aliases {
		if Present(alias) {
			return Text(alias), true
		}
	}
	return "", false
}
