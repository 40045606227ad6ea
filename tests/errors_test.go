package tests

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/mrsinham/rdsrsummary/internal/rdsrtest"
	"github.com/mrsinham/rdsrsummary/internal/report"
	"github.com/mrsinham/rdsrsummary/internal/session"
)

// TestErrors_MissingFolder verifies that a nonexistent input folder is a
// hard error, not an empty result.
func TestErrors_MissingFolder(t *testing.T) {
	sess := session.New()
	if _, _, err := sess.Load(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}

// TestErrors_CorruptFilesAreCounted verifies the tolerant batch contract:
// unreadable files increment the skip count and everything else loads.
func TestErrors_CorruptFilesAreCounted(t *testing.T) {
	dir := t.TempDir()

	err := rdsrtest.Write(filepath.Join(dir, "good.dcm"), rdsrtest.Report{
		PatientID:   "P1",
		ContentDate: "20240110",
		Numeric:     map[string]string{"DLP": "300"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "truncated.dcm"), []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "noise.dcm"), []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, skipped, err := rdsr.LoadFolder(dir)
	if err != nil {
		t.Fatalf("LoadFolder failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("loaded %d records, want 1", len(records))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

// TestErrors_HistogramNeedsSpread verifies the sentinel for degenerate
// histogram input.
func TestErrors_HistogramNeedsSpread(t *testing.T) {
	dir := t.TempDir()
	for _, file := range []string{"a.dcm", "b.dcm"} {
		err := rdsrtest.Write(filepath.Join(dir, file), rdsrtest.Report{
			PatientID:   "P1",
			ContentDate: "20240110",
			Numeric:     map[string]string{"KVP": "120"},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	sess := session.New()
	if _, _, err := sess.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Two records but a single distinct value
	if _, err := sess.Histogram("KVP", 10); !errors.Is(err, report.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

// TestErrors_ExportToUnwritablePath verifies export failures surface as
// errors without touching session state.
func TestErrors_ExportToUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	err := rdsrtest.Write(filepath.Join(dir, "a.dcm"), rdsrtest.Report{
		PatientID: "P1",
		Numeric:   map[string]string{"DLP": "100"},
	})
	if err != nil {
		t.Fatal(err)
	}

	sess := session.New()
	if _, _, err := sess.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	badPath := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	if _, err := sess.ExportCSV(badPath); err == nil {
		t.Error("CSV export to a missing directory should fail")
	}
	if _, err := sess.ExportXLSX(badPath); err == nil {
		t.Error("XLSX export to a missing directory should fail")
	}
	if len(sess.Records()) != 1 {
		t.Error("failed exports must not disturb the loaded records")
	}
}
