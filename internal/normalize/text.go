package normalize

import "strings"

// Text trims and upper-cases a raw field; empty input normalizes to nil.
func Text(s string) *string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the string value of a nullable field, "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
