// Package models holds the data dictionary entities and the pure reconciliation
// of an observed column against its declared expectation.
package models

import (
	"strings"
)

// MaxNameLength bounds a normalized column name in bytes.
const MaxNameLength = 255

// NormalizeName maps a column name to its canonical stored form.
// Every dictionary entry point goes through it; config keys never do.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Entry is one declared column expectation. Type keeps the caller's spelling.
type Entry struct {
	Name        string       `json:"columnName"`
	Type        string       `json:"columnType"`
	Nullable    OptionalBool `json:"isNullable,omitzero"`
	PII         OptionalBool `json:"isPII,omitzero"`
	Description string       `json:"description,omitempty"`
}

// Candidate is an observed column submitted for validation. Only Name is required.
type Candidate struct {
	Name        string       `json:"columnName"`
	Type        string       `json:"columnType,omitempty"`
	Nullable    OptionalBool `json:"isNullable,omitzero"`
	PII         OptionalBool `json:"isPII,omitzero"`
	Description string       `json:"description,omitempty"`
}

// LookupResult partitions a bulk lookup. NotFound keeps first-occurrence order.
type LookupResult struct {
	Found    map[string]Entry
	NotFound []string
}
