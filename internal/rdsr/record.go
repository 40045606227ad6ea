// Package rdsr extracts flat exposure records from DICOM Radiation Dose
// Structured Reports.
package rdsr

import (
	"sort"
	"time"
)

// Well-known field names used across filtering, analysis and export.
const (
	FieldPatientID   = "PatientID"
	FieldContentDate = "ContentDate"
)

// targetConcepts lists the concept names (SR CodeMeanings and top-level
// attribute keywords) extracted from each report.
var targetConcepts = map[string]struct{}{
	"SOPInstanceUID":                      {},
	"ContentDate":                         {},
	"ContentTime":                         {},
	"StationName":                         {},
	"PatientName":                         {},
	"PatientID":                           {},
	"PatientBirthDate":                    {},
	"PatientSex":                          {},
	"SoftwareVersions":                    {},
	"StudyInstanceUID":                    {},
	"SeriesInstanceUID":                   {},
	"SeriesNumber":                        {},
	"Person Observer Name":                {},
	"Start of X-Ray Irradiation":          {},
	"End of X-Ray Irradiation":            {},
	"Total Number of Irradiation Events":  {},
	"CT Dose Length Product Total":        {},
	"Acquisition Protocol":                {},
	"Irradiation Event UID":               {},
	"Exposure Time":                       {},
	"Scanning Length":                     {},
	"Nominal Single Collimation Width":    {},
	"Nominal Total Collimation Width":     {},
	"Identification of the X-Ray Source":  {},
	"KVP":                                 {},
	"Maximum X-Ray Tube Current":          {},
	"X-Ray Tube Current":                  {},
	"Exposure Time per Rotation":          {},
	"Mean CTDIvol":                        {},
	"DLP":                                 {},
}

// IsTargetConcept reports whether name is one of the extracted concepts.
func IsTargetConcept(name string) bool {
	_, ok := targetConcepts[name]
	return ok
}

// TargetConcepts returns the extracted concept names in sorted order.
func TargetConcepts() []string {
	names := make([]string, 0, len(targetConcepts))
	for name := range targetConcepts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExposureRecord is the flattened representation of one RDSR document.
// Records are immutable after extraction: filtering and analysis build new
// views and never write back into a record.
type ExposureRecord struct {
	// PatientID is the patient identifier. It is only meaningful when
	// HasPatientID is true; an absent identifier is never represented by a
	// sentinel value that could collide with real data.
	PatientID    string
	HasPatientID bool

	// ContentDate is the parsed report date, nil when the source had no date
	// or the date could not be parsed.
	ContentDate *time.Time

	// Numeric holds fields whose source value parsed as a number. A field
	// that is absent or non-numeric in the source has no key here.
	Numeric map[string]float64

	// Raw holds the original text of every extracted field, including those
	// also present in Numeric.
	Raw map[string]string
}

// NumericValue returns the numeric value of a field. The second return is
// false when the field is absent or was not numeric in the source.
func (r ExposureRecord) NumericValue(field string) (float64, bool) {
	v, ok := r.Numeric[field]
	return v, ok
}

// RawValue returns the original text of a field.
func (r ExposureRecord) RawValue(field string) (string, bool) {
	v, ok := r.Raw[field]
	return v, ok
}
