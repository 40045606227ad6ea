package report

import (
	"sort"
	"time"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// DateCount is the number of exposure records on one calendar day.
type DateCount struct {
	Date  time.Time
	Count int
}

// ExposuresOverTime counts records per calendar day, over records that carry
// both a patient identifier and a date. The result is sorted ascending.
func ExposuresOverTime(records []rdsr.ExposureRecord) []DateCount {
	counts := make(map[time.Time]int)
	for _, rec := range records {
		if !rec.HasPatientID || rec.ContentDate == nil {
			continue
		}
		counts[rdsr.DateOnly(*rec.ContentDate)]++
	}

	out := make([]DateCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DateCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SameDayGroup holds the records of one patient on one calendar day.
type SameDayGroup struct {
	PatientID string
	Date      time.Time
	Records   []rdsr.ExposureRecord
}

// SameDayExposures returns the patient/day groups with at least threshold
// records, sorted by date then patient identifier. Records missing either
// the patient identifier or the date cannot be grouped and are ignored. A
// threshold below 2 is treated as 2.
func SameDayExposures(records []rdsr.ExposureRecord, threshold int) []SameDayGroup {
	if threshold < 2 {
		threshold = 2
	}

	type key struct {
		id  string
		day time.Time
	}
	groups := make(map[key][]rdsr.ExposureRecord)
	for _, rec := range records {
		if !rec.HasPatientID || rec.ContentDate == nil {
			continue
		}
		k := key{id: rec.PatientID, day: rdsr.DateOnly(*rec.ContentDate)}
		groups[k] = append(groups[k], rec)
	}

	var out []SameDayGroup
	for k, recs := range groups {
		if len(recs) >= threshold {
			out = append(out, SameDayGroup{PatientID: k.id, Date: k.day, Records: recs})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].PatientID < out[j].PatientID
	})
	return out
}
