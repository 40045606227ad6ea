package browser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/mrsinham/rdsrsummary/internal/report"
)

// ToFilterSpec converts the serializable filter state into a filter spec.
func ToFilterSpec(f FilterState) (report.FilterSpec, error) {
	spec := report.FilterSpec{
		CaseInsensitive: f.IgnoreCase,
	}

	if len(f.Equals) > 0 {
		spec.Equals = make(map[string]string, len(f.Equals))
		for k, v := range f.Equals {
			spec.Equals[k] = v
		}
	}

	if len(f.Contains) > 0 {
		spec.Contains = make(map[string]string, len(f.Contains))
		for k, v := range f.Contains {
			spec.Contains[k] = v
		}
	}

	if len(f.Ranges) > 0 {
		spec.Ranges = make(map[string]report.NumericRange, len(f.Ranges))
		for k, r := range f.Ranges {
			if r.Min > r.Max {
				return report.FilterSpec{}, fmt.Errorf("range on %s: min %g exceeds max %g", k, r.Min, r.Max)
			}
			spec.Ranges[k] = report.NumericRange{Min: r.Min, Max: r.Max}
		}
	}

	if f.StartDate != "" || f.EndDate != "" {
		dates := &report.DateRange{}
		if f.StartDate != "" {
			t, err := parseFilterDate(f.StartDate)
			if err != nil {
				return report.FilterSpec{}, fmt.Errorf("start date: %w", err)
			}
			dates.Start = t
		}
		if f.EndDate != "" {
			t, err := parseFilterDate(f.EndDate)
			if err != nil {
				return report.FilterSpec{}, fmt.Errorf("end date: %w", err)
			}
			dates.End = t
		}
		if dates.Start != nil && dates.End != nil && dates.Start.After(*dates.End) {
			return report.FilterSpec{}, fmt.Errorf("start date %s is after end date %s", f.StartDate, f.EndDate)
		}
		spec.Dates = dates
	}

	return spec, nil
}

// parseFilterDate parses a YYYYMMDD date string.
func parseFilterDate(s string) (*time.Time, error) {
	t, err := time.Parse("20060102", strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYYMMDD", s)
	}
	day := rdsr.DateOnly(t)
	return &day, nil
}

// ParseRange parses a 'MIN:MAX' range expression.
func ParseRange(s string) (RangeState, error) {
	minStr, maxStr, ok := strings.Cut(s, ":")
	if !ok {
		return RangeState{}, fmt.Errorf("expected 'MIN:MAX', got %q", s)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
	if err != nil {
		return RangeState{}, fmt.Errorf("invalid minimum %q", minStr)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(maxStr), 64)
	if err != nil {
		return RangeState{}, fmt.Errorf("invalid maximum %q", maxStr)
	}
	if min > max {
		return RangeState{}, fmt.Errorf("minimum %g exceeds maximum %g", min, max)
	}

	return RangeState{Min: min, Max: max}, nil
}

// Describe renders the filter state as a short one-line summary for display.
func (f FilterState) Describe() string {
	if f.Empty() {
		return "none"
	}

	var parts []string
	for _, k := range sortedFilterKeys(f.Equals) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, f.Equals[k]))
	}
	for _, k := range sortedFilterKeys(f.Contains) {
		parts = append(parts, fmt.Sprintf("%s~%s", k, f.Contains[k]))
	}
	rangeKeys := make([]string, 0, len(f.Ranges))
	for k := range f.Ranges {
		rangeKeys = append(rangeKeys, k)
	}
	sort.Strings(rangeKeys)
	for _, k := range rangeKeys {
		r := f.Ranges[k]
		parts = append(parts, fmt.Sprintf("%s in [%g, %g]", k, r.Min, r.Max))
	}
	if f.StartDate != "" {
		parts = append(parts, "from "+f.StartDate)
	}
	if f.EndDate != "" {
		parts = append(parts, "to "+f.EndDate)
	}

	return strings.Join(parts, ", ")
}

func sortedFilterKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
