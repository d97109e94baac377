package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Nullable tracks whether a field was present in a JSON payload, and whether
// it was present as null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableUUID is the common case of a nullable foreign key.
type NullableUUID = Nullable[uuid.UUID]

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Set = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Set = true
	n.Value = &parsed
	return nil
}

// Apply overwrites dst when the field was present.
func (n Nullable[T]) Apply(dst **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	v := *n.Value
	*dst = &v
}

// Of builds a present, non-null value.
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null builds a present null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}
