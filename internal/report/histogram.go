package report

import (
	"errors"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// DefaultBins is the bin count used when the caller does not choose one.
const DefaultBins = 20

// ErrInsufficientData is returned when a field has fewer than two distinct
// non-null values, so there is no distribution to show.
var ErrInsufficientData = errors.New("fewer than two distinct values: no distribution to show")

// Histogram is an equal-width frequency distribution over one numeric field.
// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]), with
// the last bin closed on the right. Excluded counts the records whose value
// for the field was null, reported so a shrunken sample is visible.
type Histogram struct {
	Field    string
	Edges    []float64
	Counts   []int
	Excluded int
}

// Total returns the number of values binned.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// ComputeHistogram bins the non-null values of field across records. A bins
// value <= 0 selects DefaultBins.
func ComputeHistogram(records []rdsr.ExposureRecord, field string, bins int) (Histogram, error) {
	if bins <= 0 {
		bins = DefaultBins
	}

	var values []float64
	distinct := make(map[float64]struct{})
	for _, rec := range records {
		if v, ok := rec.NumericValue(field); ok {
			values = append(values, v)
			distinct[v] = struct{}{}
		}
	}

	h := Histogram{Field: field, Excluded: len(records) - len(values)}
	if len(distinct) < 2 {
		return h, ErrInsufficientData
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	width := (hi - lo) / float64(bins)
	h.Edges = make([]float64, bins+1)
	for i := 0; i <= bins; i++ {
		h.Edges[i] = lo + width*float64(i)
	}
	h.Edges[bins] = hi

	h.Counts = make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}

	return h, nil
}
