// Package rdsrtest writes synthetic X-Ray Radiation Dose SR files for
// tests. The reports are minimal but structurally real: they round-trip
// through the DICOM writer and parser, so tests exercise the same read path
// as production folders.
package rdsrtest

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	// X-Ray Radiation Dose SR storage class
	doseSRClassUID    = "1.2.840.10008.5.1.4.1.1.88.67"
	uidRoot           = "1.2.826.0.1.3680043.8.498"
	transferSyntaxUID = "1.2.840.10008.1.2.1"
)

// dcmCodes maps the concept meanings used in fixtures to their DCM codes.
// Readers key on the meaning, so unknown meanings fall back to a test code.
var dcmCodes = map[string]string{
	"DLP":                  "113838",
	"Mean CTDIvol":         "113830",
	"KVP":                  "113733",
	"Acquisition Protocol": "125203",
}

var uidCounter atomic.Uint64

// Report describes one synthetic dose report. Empty fields are omitted from
// the file, which is how null patient IDs and dates are produced.
type Report struct {
	PatientID   string
	ContentDate string
	StationName string
	// Numeric holds measured content items, concept meaning to decimal
	// string. The value is written verbatim so tests control formatting.
	Numeric map[string]string
	// Text holds TEXT content items, concept meaning to value.
	Text map[string]string
}

// Write serializes the report to path as an explicit-VR little-endian file.
func Write(path string, r Report) error {
	instanceUID := fmt.Sprintf("%s.%d", uidRoot, uidCounter.Add(1))

	elements := []*dicom.Element{
		mustElement(tag.MediaStorageSOPClassUID, []string{doseSRClassUID}),
		mustElement(tag.MediaStorageSOPInstanceUID, []string{instanceUID}),
		mustElement(tag.TransferSyntaxUID, []string{transferSyntaxUID}),
		mustElement(tag.SOPClassUID, []string{doseSRClassUID}),
		mustElement(tag.SOPInstanceUID, []string{instanceUID}),
		mustElement(tag.Modality, []string{"SR"}),
	}

	if r.PatientID != "" {
		elements = append(elements, mustElement(tag.PatientID, []string{r.PatientID}))
	}
	if r.ContentDate != "" {
		elements = append(elements, mustElement(tag.ContentDate, []string{r.ContentDate}))
	}
	if r.StationName != "" {
		elements = append(elements, mustElement(tag.StationName, []string{r.StationName}))
	}

	var items [][]*dicom.Element
	for _, meaning := range sortedKeys(r.Numeric) {
		items = append(items, numItem(meaning, r.Numeric[meaning]))
	}
	for _, meaning := range sortedKeys(r.Text) {
		items = append(items, textItem(meaning, r.Text[meaning]))
	}
	if len(items) > 0 {
		elements = append(elements, mustElement(tag.ContentSequence, items))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// numItem builds a NUM content item with a measured value.
func numItem(meaning, value string) []*dicom.Element {
	return []*dicom.Element{
		mustElement(tag.ValueType, []string{"NUM"}),
		conceptName(meaning),
		mustElement(tag.MeasuredValueSequence, [][]*dicom.Element{{
			mustElement(tag.NumericValue, []string{value}),
		}}),
	}
}

// textItem builds a TEXT content item.
func textItem(meaning, value string) []*dicom.Element {
	return []*dicom.Element{
		mustElement(tag.ValueType, []string{"TEXT"}),
		conceptName(meaning),
		mustElement(tag.TextValue, []string{value}),
	}
}

func conceptName(meaning string) *dicom.Element {
	code, ok := dcmCodes[meaning]
	if !ok {
		code = "999999"
	}
	return mustElement(tag.ConceptNameCodeSequence, [][]*dicom.Element{{
		mustElement(tag.CodeValue, []string{code}),
		mustElement(tag.CodingSchemeDesignator, []string{"DCM"}),
		mustElement(tag.CodeMeaning, []string{meaning}),
	}})
}

func mustElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("building element %v: %v", t, err))
	}
	return elem
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
