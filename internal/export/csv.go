package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// WriteCSV writes records as CSV rows to w, one row per record, columns as
// returned by Columns. It returns the number of data rows written.
func WriteCSV(w io.Writer, records []rdsr.ExposureRecord) (int, error) {
	columns := Columns(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for i, rec := range records {
		for j, field := range columns {
			row[j] = cellValue(rec, field)
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(records), fmt.Errorf("flush: %w", err)
	}
	return len(records), nil
}

// ExportCSV writes records to a CSV file at path. A failure is returned to
// the caller; the records themselves are untouched, so the caller's view
// survives a failed export.
func ExportCSV(path string, records []rdsr.ExposureRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := WriteCSV(f, records)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", path, cerr)
	}
	if err != nil {
		return n, err
	}
	return n, nil
}
