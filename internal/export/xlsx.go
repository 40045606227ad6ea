package export

import (
	"fmt"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Exposures"

// ExportXLSX writes records to an XLSX workbook at path, one sheet, same
// column layout as the CSV export. Numeric values are written as numbers so
// spreadsheet tooling can aggregate them directly.
func ExportXLSX(path string, records []rdsr.ExposureRecord) (int, error) {
	columns := Columns(records)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}

	for j, field := range columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return 0, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, field); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	for i, rec := range records {
		for j, field := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return i, fmt.Errorf("cell name: %w", err)
			}

			if v, ok := rec.NumericValue(field); ok {
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return i, fmt.Errorf("write row %d: %w", i+1, err)
				}
				continue
			}
			if text := cellValue(rec, field); text != "" {
				if err := f.SetCellValue(sheetName, cell, text); err != nil {
					return i, fmt.Errorf("write row %d: %w", i+1, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save %s: %w", path, err)
	}
	return len(records), nil
}
