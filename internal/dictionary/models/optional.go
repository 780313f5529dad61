package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OptionalBool is a tri-state boolean: absent, false or true.
// The zero value is absent. With the omitzero tag an absent value is left out of JSON.
type OptionalBool struct {
	Value bool
	Set   bool
}

// Some returns a present OptionalBool.
func Some(v bool) OptionalBool {
	return OptionalBool{Value: v, Set: true}
}

// FromPtr converts a nullable pointer; nil is absent.
func FromPtr(p *bool) OptionalBool {
	if p == nil {
		return OptionalBool{}
	}
	return Some(*p)
}

// Ptr returns nil when absent. Handy for SQL parameters.
func (o OptionalBool) Ptr() *bool {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// IsZero reports absence.
func (o OptionalBool) IsZero() bool {
	return !o.Set
}

func (o OptionalBool) String() string {
	if !o.Set {
		return "absent"
	}
	return fmt.Sprintf("%t", o.Value)
}

func (o OptionalBool) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON treats null as absent.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = OptionalBool{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("expected boolean or null: %w", err)
	}
	*o = Some(v)
	return nil
}
