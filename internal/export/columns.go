// Package export serializes filtered exposure records to tabular files.
package export

import (
	"sort"
	"strconv"

	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// canonicalOrder fixes the position of the well-known report fields so
// exports line up across runs and sites.
var canonicalOrder = []string{
	"SOPInstanceUID",
	"ContentDate",
	"ContentTime",
	"StationName",
	"PatientName",
	"PatientID",
	"PatientBirthDate",
	"PatientSex",
	"SoftwareVersions",
	"StudyInstanceUID",
	"SeriesInstanceUID",
	"SeriesNumber",
	"Person Observer Name",
	"Start of X-Ray Irradiation",
	"End of X-Ray Irradiation",
	"Total Number of Irradiation Events",
	"CT Dose Length Product Total",
	"Acquisition Protocol",
	"Irradiation Event UID",
	"Exposure Time",
	"Scanning Length",
	"Nominal Single Collimation Width",
	"Nominal Total Collimation Width",
	"Identification of the X-Ray Source",
	"KVP",
	"Maximum X-Ray Tube Current",
	"X-Ray Tube Current",
	"Exposure Time per Rotation",
	"Mean CTDIvol",
	"DLP",
}

// Columns returns the union of field names observed across records in a
// stable order: canonical fields first (those actually observed), then any
// extra fields alphabetically. Using the union rather than the first
// record's fields keeps columns that only appear in later records.
func Columns(records []rdsr.ExposureRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for field := range rec.Raw {
			seen[field] = struct{}{}
		}
		for field := range rec.Numeric {
			seen[field] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for _, field := range canonicalOrder {
		if _, ok := seen[field]; ok {
			columns = append(columns, field)
			delete(seen, field)
		}
	}

	extras := make([]string, 0, len(seen))
	for field := range seen {
		extras = append(extras, field)
	}
	sort.Strings(extras)

	return append(columns, extras...)
}

// cellValue returns the export text for one record field: the original
// source text when available, the formatted number otherwise, and "" for a
// null.
func cellValue(rec rdsr.ExposureRecord, field string) string {
	if v, ok := rec.RawValue(field); ok {
		return v
	}
	if v, ok := rec.NumericValue(field); ok {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}
