package utils

import (
	"strings"
	"time"
)

const (
	layoutDate    = "2006-01-02"
	layoutDisplay = "02 Jan 2006"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDisplayDate renders a date-like string as "02 Jan 2006".
// RFC 3339 and YYYY-MM-DD inputs are understood; anything else is returned trimmed.
func FormatDisplayDate(v string) string {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(layoutDisplay)
	}
	if len(v) >= 10 {
		if t, err := time.Parse(layoutDate, v[:10]); err == nil {
			return t.Format(layoutDisplay)
		}
	}
	return v
}
