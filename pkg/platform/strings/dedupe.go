// Package strings provides string manipulation utilities.
package strings

// Distinct is one group of values that share a key.
// First is the earliest value of the group exactly as given.
type Distinct struct {
	Key   string
	First string
}

// DistinctBy groups values by key, in order of first occurrence. Every value
// belongs to exactly one group.
//
// Example:
//
//	DistinctBy([]string{"Foo", "bar", "FOO"}, strings.ToLower)
//	// Returns: [{foo Foo} {bar bar}]
func DistinctBy(values []string, key func(string) string) []Distinct {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]Distinct, 0, len(values))

	for _, v := range values {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, Distinct{Key: k, First: v})
	}

	return result
}
