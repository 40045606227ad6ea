// Package report implements the pure filtering and aggregation pipeline over
// extracted exposure records. Every function takes records as input and
// builds a new result; the input slice and its records are never mutated.
package report

import (
	"strings"
	"time"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// NumericRange is an inclusive [Min, Max] interval.
type NumericRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the interval.
func (r NumericRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// DateRange bounds the record date by calendar day, inclusive on both sides.
// A nil bound leaves that side open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// FilterSpec is a set of per-field predicates combined by logical AND. A
// field without a predicate passes through. The zero value matches every
// record.
type FilterSpec struct {
	// Equals requires the raw field text to match exactly. Comparison is
	// case-sensitive unless CaseInsensitive is set.
	Equals map[string]string

	// Contains requires the raw field text to contain the value,
	// case-insensitively.
	Contains map[string]string

	// Ranges requires a present numeric value inside the interval. A record
	// whose value is missing or non-numeric always fails.
	Ranges map[string]NumericRange

	// Dates bounds the record's content date. A record without a parseable
	// date always fails a date predicate.
	Dates *DateRange

	CaseInsensitive bool
}

// Empty reports whether the spec holds no predicates at all.
func (s FilterSpec) Empty() bool {
	return len(s.Equals) == 0 && len(s.Contains) == 0 && len(s.Ranges) == 0 && s.Dates == nil
}

// Matches reports whether a single record passes every predicate.
func (s FilterSpec) Matches(rec rdsr.ExposureRecord) bool {
	for field, want := range s.Equals {
		got, ok := rec.RawValue(field)
		if !ok {
			return false
		}
		if s.CaseInsensitive {
			if !strings.EqualFold(got, want) {
				return false
			}
		} else if got != want {
			return false
		}
	}

	for field, want := range s.Contains {
		got, ok := rec.RawValue(field)
		if !ok || !strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
			return false
		}
	}

	for field, interval := range s.Ranges {
		v, ok := rec.NumericValue(field)
		if !ok || !interval.Contains(v) {
			return false
		}
	}

	if s.Dates != nil {
		if rec.ContentDate == nil {
			return false
		}
		day := rdsr.DateOnly(*rec.ContentDate)
		if s.Dates.Start != nil && day.Before(rdsr.DateOnly(*s.Dates.Start)) {
			return false
		}
		if s.Dates.End != nil && day.After(rdsr.DateOnly(*s.Dates.End)) {
			return false
		}
	}

	return true
}

// Apply filters records through spec and returns the passing records as a
// new slice, preserving input order. An empty spec returns a copy of the
// input.
func Apply(records []rdsr.ExposureRecord, spec FilterSpec) []rdsr.ExposureRecord {
	out := make([]rdsr.ExposureRecord, 0, len(records))
	for _, rec := range records {
		if spec.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}
