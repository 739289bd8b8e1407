package models

// TagFilter narrows provider-side enumeration to resources carrying Key.
// An empty Value matches any value.
type TagFilter struct {
	Key   string
	Value string
}
