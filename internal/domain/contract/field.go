// internal/domain/contract/field.go
package contract

import (
	"bytes"
	"encoding/json"
)

// Field is a contract/indexer value whose presence is tracked explicitly.
// A key that is missing or null decodes to an absent Field.
type Field[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

func None[T any]() Field[T] {
	return Field[T]{}
}

func (f Field[T]) Get() (T, bool) {
	return f.value, f.present
}

func (f Field[T]) Present() bool { return f.present }

// OrZero returns the value, or T's zero value when absent.
func (f Field[T]) OrZero() T { return f.value }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
