package schedule

import "strings"

// Tags is the tag set of a single resource. Keys are case-sensitive.
type Tags map[string]string

// Lookup returns the value of key and whether the tag is present
func (t Tags) Lookup(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Has reports whether every key is present
func (t Tags) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := t[k]; !ok {
			return false
		}
	}
	return true
}

// Annotation renders the given keys as "k1=v1, k2=v2" in the order given.
// Absent and blank values are left out.
func (t Tags) Annotation(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value, ok := t[key]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ", ")
}
