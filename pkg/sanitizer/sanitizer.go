package sanitizer

import (
	"strings"
)

// Text returns the trimmed string form of value, or "" for any
// non-string input. It never panics.
func Text(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Array returns the string entries of value, trimmed, with entries
// that are empty (or not strings) dropped. Order of surviving entries
// is preserved. Non-array input yields an empty slice.
func Array(value any) []string {
	out := []string{}

	switch items := value.(type) {
	case []string:
		for _, item := range items {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range items {
			if s := Text(item); s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

// Map returns value as a key-value mapping, or nil if it is not one.
// Raw questionnaire payloads arrive untyped; nested legacy objects
// are pulled out with this before field extraction.
func Map(value any) map[string]any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// CollapseWhitespace replaces every run of whitespace with a single
// space and trims the result.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
