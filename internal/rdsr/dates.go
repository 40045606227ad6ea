package rdsr

import (
	"strings"
	"time"
)

// generalLayouts are tried after the strict DICOM DA format. They cover the
// DT timestamps and the loose spellings seen in exported reports.
var generalLayouts = []string{
	"20060102150405",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006",
}

// ParseContentDate parses a report date string. It tries the strict DICOM DA
// format (YYYYMMDD) first and falls back to general timestamp layouts. The
// second return is false when nothing matched; the caller keeps the record
// with an unknown date rather than substituting a default.
func ParseContentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("20060102", s); err == nil {
		return t, true
	}

	// DT values may carry fractional seconds or a zone suffix; the leading
	// 14 digits are the full timestamp.
	if len(s) > 14 && allDigits(s[:14]) {
		if t, err := time.Parse("20060102150405", s[:14]); err == nil {
			return t, true
		}
	}

	for _, layout := range generalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DateOnly truncates a timestamp to its calendar day in UTC. Range filtering
// and same-day grouping compare days, not clock times.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
