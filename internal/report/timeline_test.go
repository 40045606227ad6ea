package report

import (
	"testing"
	"time"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

func TestExposuresOverTime(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "20240112", nil),
		makeRecord("P2", "20240110", nil),
		makeRecord("P3", "20240110", nil),
		makeRecord("P4", "", nil),      // no date: ignored
		makeRecord("", "20240110", nil), // no patient: ignored
	}

	points := ExposuresOverTime(records)
	if len(points) != 2 {
		t.Fatalf("got %d days, want 2", len(points))
	}

	if !points[0].Date.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first day = %v, want 2024-01-10 (ascending order)", points[0].Date)
	}
	if points[0].Count != 2 {
		t.Errorf("2024-01-10 count = %d, want 2", points[0].Count)
	}
	if points[1].Count != 1 {
		t.Errorf("2024-01-12 count = %d, want 1", points[1].Count)
	}
}

func TestSameDayExposures(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "20240110", nil),
		makeRecord("P1", "20240110", nil),
		makeRecord("P1", "20240110", nil),
		makeRecord("P1", "20240111", nil), // different day
		makeRecord("P2", "20240110", nil),
		makeRecord("P2", "20240110", nil),
	}

	groups := SameDayExposures(records, 3)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.PatientID != "P1" || len(g.Records) != 3 {
		t.Errorf("group = %s with %d records, want P1 with 3", g.PatientID, len(g.Records))
	}

	// Lowering the threshold brings P2 in
	groups = SameDayExposures(records, 2)
	if len(groups) != 2 {
		t.Fatalf("threshold 2: got %d groups, want 2", len(groups))
	}
}

func TestSameDayExposures_ThresholdFloor(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "20240110", nil),
		makeRecord("P2", "20240111", nil),
	}

	// A threshold below 2 still means repeated exposures, never single ones.
	if groups := SameDayExposures(records, 0); len(groups) != 0 {
		t.Errorf("threshold 0 returned %d groups, want 0", len(groups))
	}
}

func TestSameDayExposures_SortedByDateThenPatient(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P2", "20240110", nil),
		makeRecord("P2", "20240110", nil),
		makeRecord("P1", "20240110", nil),
		makeRecord("P1", "20240110", nil),
		makeRecord("P9", "20240105", nil),
		makeRecord("P9", "20240105", nil),
	}

	groups := SameDayExposures(records, 2)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].PatientID != "P9" {
		t.Errorf("first group = %s, want P9 (earliest date first)", groups[0].PatientID)
	}
	if groups[1].PatientID != "P1" || groups[2].PatientID != "P2" {
		t.Errorf("same-day groups = %s, %s; want P1 then P2", groups[1].PatientID, groups[2].PatientID)
	}
}
