// Package models holds the configuration store's value types.
//
// Keys are opaque, case-sensitive strings. Unlike dictionary names they are never
// normalized, so prefix matching is exact byte comparison.
package models

// Entry is one stored configuration value.
type Entry struct {
	Key   string
	Value string
}

// Record renders the entry as the single-entry mapping returned by lookups.
func (e Entry) Record() map[string]string {
	return map[string]string{e.Key: e.Value}
}

// Records renders entries in order.
func Records(entries []Entry) []map[string]string {
	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record())
	}
	return out
}
