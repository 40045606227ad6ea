// Package session ties the loaded record store and the active filter into an
// explicit object the presentation layers operate on. Everything derived
// (filtered view, statistics, histograms, exports) is a pure function of the
// loaded records and the current filter, recomputed on demand.
package session

import (
	"github.com/mrsinham/rdsrsummary/internal/export"
	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/mrsinham/rdsrsummary/internal/report"
)

// Session holds one folder's worth of exposure records and the filter the
// user has built up. It is not safe for concurrent use; the tool is
// single-user and event-driven.
type Session struct {
	dir     string
	records []rdsr.ExposureRecord
	skipped int
	spec    report.FilterSpec
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Load reads every report under dir, replacing any previously loaded
// records. It returns the number of loaded records and skipped files. The
// active filter is kept so a reload re-applies the user's view.
func (s *Session) Load(dir string) (loaded, skipped int, err error) {
	records, skipped, err := rdsr.LoadFolder(dir)
	if err != nil {
		return 0, 0, err
	}
	s.dir = dir
	s.records = records
	s.skipped = skipped
	return len(records), skipped, nil
}

// Dir returns the folder of the current records, "" before the first load.
func (s *Session) Dir() string { return s.dir }

// Skipped returns the number of files skipped during the last load.
func (s *Session) Skipped() int { return s.skipped }

// Records returns all loaded records, unfiltered.
func (s *Session) Records() []rdsr.ExposureRecord { return s.records }

// Filter returns the active filter spec.
func (s *Session) Filter() report.FilterSpec { return s.spec }

// SetFilter replaces the active filter spec.
func (s *Session) SetFilter(spec report.FilterSpec) { s.spec = spec }

// ClearFilter removes every predicate.
func (s *Session) ClearFilter() { s.spec = report.FilterSpec{} }

// Filtered returns the records passing the active filter, in load order.
func (s *Session) Filtered() []rdsr.ExposureRecord {
	return report.Apply(s.records, s.spec)
}

// NumericFields returns the numeric field names observed in the filtered
// view, for histogram and summary field choices.
func (s *Session) NumericFields() []string {
	return report.NumericFields(s.Filtered())
}

// Summary computes aggregate statistics over the filtered view for the
// default summary fields.
func (s *Session) Summary() []report.FieldStats {
	filtered := s.Filtered()
	return report.Summarize(filtered, report.SummaryFields(filtered))
}

// Duplicates returns the patients with more than one record in the filtered
// view.
func (s *Session) Duplicates() map[string]int {
	return report.Duplicates(s.Filtered())
}

// SameDay returns patient/day groups with at least threshold records in the
// filtered view.
func (s *Session) SameDay(threshold int) []report.SameDayGroup {
	return report.SameDayExposures(s.Filtered(), threshold)
}

// Histogram bins the chosen field over the filtered view.
func (s *Session) Histogram(field string, bins int) (report.Histogram, error) {
	return report.ComputeHistogram(s.Filtered(), field, bins)
}

// Timeline counts exposures per calendar day over the filtered view.
func (s *Session) Timeline() []report.DateCount {
	return report.ExposuresOverTime(s.Filtered())
}

// ExportCSV writes the filtered view to a CSV file. On failure the session
// state is untouched and the view does not need recomputation.
func (s *Session) ExportCSV(path string) (int, error) {
	return export.ExportCSV(path, s.Filtered())
}

// ExportXLSX writes the filtered view to an XLSX workbook.
func (s *Session) ExportXLSX(path string) (int, error) {
	return export.ExportXLSX(path, s.Filtered())
}
