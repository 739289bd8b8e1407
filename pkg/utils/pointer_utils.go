package utils

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Int32Values dereferences every pointer. ok is false if any of them is nil.
func Int32Values(ptrs ...*int32) (values []int32, ok bool) {
	values = make([]int32, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			return nil, false
		}
		values[i] = *p
	}
	return values, true
}
