package normalize

import (
	"strings"
	"time"
)

const dateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY date, accepting "-" as an alternate
// separator (normalized to "/" first). Returns nil if the input is empty or
// unparseable; bad dates are tolerated, never an error.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "-", "/")
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDate renders a date back to DD/MM/YYYY; nil → "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// Period returns the "YYYY-MM" admission period key for a date, nil for nil.
func Period(t *time.Time) *string {
	if t == nil {
		return nil
	}
	p := t.Format("2006-01")
	return &p
}

// Year returns the calendar year of a date, 0 for nil.
func Year(t *time.Time) int {
	if t == nil {
		return 0
	}
	return t.Year()
}
