package report

import (
	"math"
	"testing"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

func TestSummarize_SkipsNulls(t *testing.T) {
	// Values [2.0, null, 4.0]: moments over the two non-null values only.
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", map[string]string{"DLP": "2.0"}),
		makeRecord("P2", "", nil),
		makeRecord("P3", "", map[string]string{"DLP": "4.0"}),
	}

	stats := Summarize(records, []string{"DLP"})
	if len(stats) != 1 {
		t.Fatalf("got %d stats, want 1", len(stats))
	}

	s := stats[0]
	if s.Count != 2 {
		t.Errorf("Count = %d, want 2", s.Count)
	}
	if s.Mean != 3.0 {
		t.Errorf("Mean = %g, want 3.0", s.Mean)
	}
	if s.Median != 3.0 {
		t.Errorf("Median = %g, want 3.0", s.Median)
	}
	if s.Min != 2.0 || s.Max != 4.0 {
		t.Errorf("Min/Max = %g/%g, want 2.0/4.0", s.Min, s.Max)
	}
	// Sample standard deviation of {2, 4}
	if want := math.Sqrt(2); math.Abs(s.StdDev-want) > 1e-12 {
		t.Errorf("StdDev = %g, want %g", s.StdDev, want)
	}
}

func TestSummarize_AllNull(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", nil),
		makeRecord("P2", "", nil),
	}

	stats := Summarize(records, []string{"DLP"})
	if len(stats) != 1 {
		t.Fatalf("got %d stats, want 1", len(stats))
	}
	if stats[0].Count != 0 {
		t.Errorf("Count = %d, want 0", stats[0].Count)
	}
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil, []string{"DLP", "KVP"})
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	for _, s := range stats {
		if s.Count != 0 {
			t.Errorf("%s: Count = %d, want 0 for empty input", s.Field, s.Count)
		}
	}
}

func TestMedian_EvenAndOdd(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", map[string]string{"KVP": "100"}),
		makeRecord("P2", "", map[string]string{"KVP": "120"}),
		makeRecord("P3", "", map[string]string{"KVP": "140"}),
	}

	stats := Summarize(records, []string{"KVP"})
	if stats[0].Median != 120 {
		t.Errorf("odd-count median = %g, want 120", stats[0].Median)
	}

	records = append(records, makeRecord("P4", "", map[string]string{"KVP": "80"}))
	stats = Summarize(records, []string{"KVP"})
	if stats[0].Median != 110 {
		t.Errorf("even-count median = %g, want 110", stats[0].Median)
	}
}

func TestNumericFields_SortedUnion(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", map[string]string{"KVP": "120", "DLP": "100"}),
		makeRecord("P2", "", map[string]string{"Exposure Time": "2.5"}),
	}

	got := NumericFields(records)
	want := []string{"DLP", "Exposure Time", "KVP"}
	if len(got) != len(want) {
		t.Fatalf("NumericFields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NumericFields = %v, want %v", got, want)
		}
	}
}

func TestSummaryFields_ExcludesDateLikeFields(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", map[string]string{
			"DLP":                        "100",
			"ContentTime":                "093000",
			"SeriesNumber":               "2",
			"Start of X-Ray Irradiation": "20240110093000",
		}),
	}

	got := SummaryFields(records)
	if len(got) != 1 || got[0] != "DLP" {
		t.Errorf("SummaryFields = %v, want [DLP]", got)
	}
}

func TestDuplicates(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "", nil),
		makeRecord("P1", "", nil),
		makeRecord("P2", "", nil),
		makeRecord("", "", nil), // no identifier: cannot be grouped
		makeRecord("", "", nil),
	}

	dupes := Duplicates(records)
	if len(dupes) != 1 {
		t.Fatalf("Duplicates = %v, want only P1", dupes)
	}
	if dupes["P1"] != 2 {
		t.Errorf("P1 count = %d, want 2", dupes["P1"])
	}
}

func TestDuplicates_CountsPerDocument(t *testing.T) {
	// Two records with identical content still count as two documents.
	records := []rdsr.ExposureRecord{
		makeRecord("P1", "20240110", map[string]string{"DLP": "100"}),
		makeRecord("P1", "20240110", map[string]string{"DLP": "100"}),
	}

	dupes := Duplicates(records)
	if dupes["P1"] != 2 {
		t.Errorf("P1 count = %d, want 2 (no content deduplication)", dupes["P1"])
	}
}
