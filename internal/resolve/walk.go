package resolve

import "strings"

// Walk descends a nested document along a dotted path. The boolean reports
// whether the full path existed, regardless of the value found there.
func Walk(doc map[string]any, path string) (any, bool) {
	if doc == nil || path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	var current any = doc
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// IsEmpty reports whether a resolved value counts as "not configured".
// nil, zero-length strings, zero-length collections, and zero-key objects
// are empty. A boolean false or numeric zero is a legitimate present value.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
