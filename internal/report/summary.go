package report

import (
	"math"
	"sort"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// summaryExcluded lists fields that parse as numbers but are dates, times or
// ordinals, not measurements worth averaging.
var summaryExcluded = map[string]struct{}{
	"Start of X-Ray Irradiation": {},
	"End of X-Ray Irradiation":   {},
	"ContentTime":                {},
	"SeriesNumber":               {},
	"ContentDate":                {},
	"PatientBirthDate":           {},
}

// FieldStats holds aggregate statistics for one numeric field. The moments
// are computed over the Count non-null values; they are only meaningful when
// Count > 0 (StdDev when Count > 1). Consumers must gate on Count rather
// than read a zero.
type FieldStats struct {
	Field  string
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// NumericFields returns the sorted union of numeric field names observed
// across records.
func NumericFields(records []rdsr.ExposureRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for field := range rec.Numeric {
			seen[field] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// SummaryFields returns the numeric fields worth summarizing: the observed
// numeric fields minus dates, times and ordinals.
func SummaryFields(records []rdsr.ExposureRecord) []string {
	var fields []string
	for _, field := range NumericFields(records) {
		if _, excluded := summaryExcluded[field]; !excluded {
			fields = append(fields, field)
		}
	}
	return fields
}

// Summarize computes per-field aggregate statistics over the non-null values
// of each requested field. An empty input yields stats with Count 0 for
// every field, not an error.
func Summarize(records []rdsr.ExposureRecord, fields []string) []FieldStats {
	stats := make([]FieldStats, 0, len(fields))
	for _, field := range fields {
		var values []float64
		for _, rec := range records {
			if v, ok := rec.NumericValue(field); ok {
				values = append(values, v)
			}
		}
		stats = append(stats, fieldStats(field, values))
	}
	return stats
}

func fieldStats(field string, values []float64) FieldStats {
	s := FieldStats{Field: field, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = median(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	s.Mean = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		// Sample standard deviation.
		s.StdDev = math.Sqrt(sq / float64(len(values)-1))
	}

	return s
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Duplicates maps each patient identifier to its record count, restricted to
// patients with more than one record. Records without a patient identifier
// cannot be grouped and are excluded. Counting is per document; two records
// with identical content still count twice.
func Duplicates(records []rdsr.ExposureRecord) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.HasPatientID {
			counts[rec.PatientID]++
		}
	}
	for id, n := range counts {
		if n <= 1 {
			delete(counts, id)
		}
	}
	return counts
}
