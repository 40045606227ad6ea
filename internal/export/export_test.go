package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/xuri/excelize/v2"
)

func makeRecord(id string, fields map[string]string) rdsr.ExposureRecord {
	rec := rdsr.ExposureRecord{
		Numeric: make(map[string]float64),
		Raw:     make(map[string]string),
	}
	if id != "" {
		rec.PatientID = id
		rec.HasPatientID = true
		rec.Raw["PatientID"] = id
	}
	for k, v := range fields {
		rec.Raw[k] = v
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rec.Numeric[k] = f
		}
	}
	return rec
}

func TestColumns_CanonicalOrderThenExtras(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", map[string]string{"DLP": "100", "Zeta Extra": "x"}),
		makeRecord("P2", map[string]string{"KVP": "120", "Alpha Extra": "y"}),
	}

	got := Columns(records)
	want := []string{"PatientID", "KVP", "DLP", "Alpha Extra", "Zeta Extra"}
	if len(got) != len(want) {
		t.Fatalf("Columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Columns = %v, want %v", got, want)
		}
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	records := []rdsr.ExposureRecord{
		makeRecord("P1", map[string]string{"DLP": "430.75", "Acquisition Protocol": "Head Routine"}),
		makeRecord("P2", map[string]string{"DLP": "101"}),
	}

	var buf bytes.Buffer
	n, err := WriteCSV(&buf, records)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d rows, want 2", n)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(rows))
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	if rows[1][col["PatientID"]] != "P1" {
		t.Errorf("row 1 PatientID = %q, want P1", rows[1][col["PatientID"]])
	}
	if rows[1][col["DLP"]] != "430.75" {
		t.Errorf("row 1 DLP = %q, want the original text 430.75", rows[1][col["DLP"]])
	}
	// A null field is an empty cell, not a sentinel
	if rows[2][col["Acquisition Protocol"]] != "" {
		t.Errorf("row 2 protocol = %q, want empty", rows[2][col["Acquisition Protocol"]])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, nil)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}
}

func TestExportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []rdsr.ExposureRecord{makeRecord("P1", map[string]string{"DLP": "100"})}

	n, err := ExportCSV(path, records)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d rows, want 1", n)
	}
}

func TestExportCSV_BadPath(t *testing.T) {
	if _, err := ExportCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}

func TestExportXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	records := []rdsr.ExposureRecord{
		makeRecord("P1", map[string]string{"DLP": "430.75", "StationName": "CT01"}),
	}

	n, err := ExportXLSX(path, records)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d rows, want 1", n)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("re-opening workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus 1", len(rows))
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	if rows[1][col["StationName"]] != "CT01" {
		t.Errorf("StationName = %q, want CT01", rows[1][col["StationName"]])
	}
}
