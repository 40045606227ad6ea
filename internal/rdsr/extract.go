package rdsr

import (
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// topLevelTags maps the target concepts that live as ordinary top-level
// attributes (rather than SR content items) to their tags.
var topLevelTags = map[string]tag.Tag{
	"SOPInstanceUID":    tag.SOPInstanceUID,
	"ContentDate":       tag.ContentDate,
	"ContentTime":       tag.ContentTime,
	"StationName":       tag.StationName,
	"PatientName":       tag.PatientName,
	"PatientID":         tag.PatientID,
	"PatientBirthDate":  tag.PatientBirthDate,
	"PatientSex":        tag.PatientSex,
	"SoftwareVersions":  tag.SoftwareVersions,
	"StudyInstanceUID":  tag.StudyInstanceUID,
	"SeriesInstanceUID": tag.SeriesInstanceUID,
	"SeriesNumber":      tag.SeriesNumber,
}

// Extract pulls the target concepts out of one parsed report document and
// returns the flattened record. It is a pure transform: missing or malformed
// fields leave explicit gaps in the record, they never abort extraction.
func Extract(ds dicom.Dataset) ExposureRecord {
	fields := make(map[string]string)

	if content, err := ds.FindElementByTag(tag.ContentSequence); err == nil {
		walkContent(content, fields)
	}

	// Top-level attributes override content items of the same name, matching
	// the header being authoritative for patient and study identification.
	for name, t := range topLevelTags {
		elem, err := ds.FindElementByTag(t)
		if err != nil || elem == nil {
			continue
		}
		if v := firstString(elem); v != "" {
			fields[name] = v
		}
	}

	return newRecord(fields)
}

// newRecord builds an ExposureRecord from extracted name/value pairs.
func newRecord(fields map[string]string) ExposureRecord {
	rec := ExposureRecord{
		Numeric: make(map[string]float64),
		Raw:     make(map[string]string, len(fields)),
	}

	for name, value := range fields {
		rec.Raw[name] = value
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			rec.Numeric[name] = v
		}
	}

	if id, ok := fields[FieldPatientID]; ok && strings.TrimSpace(id) != "" {
		rec.PatientID = strings.TrimSpace(id)
		rec.HasPatientID = true
	}

	if raw, ok := fields[FieldContentDate]; ok {
		if t, ok := ParseContentDate(raw); ok {
			rec.ContentDate = &t
		}
	}

	return rec
}

// walkContent recursively visits an SR content sequence and records the
// values of items whose concept name is one of the targets. Value precedence
// follows the SR value types: measured value, then text, date-time, UID,
// person name.
func walkContent(seq *dicom.Element, out map[string]string) {
	for _, item := range sequenceItems(seq) {
		elements := itemElements(item)

		name := conceptName(elements)
		if name != "" && IsTargetConcept(name) {
			if v, ok := itemValue(elements); ok {
				out[name] = v
			}
		}

		if nested := findInItem(elements, tag.ContentSequence); nested != nil {
			walkContent(nested, out)
		}
	}
}

// conceptName returns the CodeMeaning of an item's concept name code
// sequence, or "" when the item has none.
func conceptName(elements []*dicom.Element) string {
	codeSeq := findInItem(elements, tag.ConceptNameCodeSequence)
	if codeSeq == nil {
		return ""
	}
	items := sequenceItems(codeSeq)
	if len(items) == 0 {
		return ""
	}
	meaning := findInItem(itemElements(items[0]), tag.CodeMeaning)
	if meaning == nil {
		return ""
	}
	return firstString(meaning)
}

// itemValue extracts the value of a content item, trying the SR value types
// in precedence order.
func itemValue(elements []*dicom.Element) (string, bool) {
	if measured := findInItem(elements, tag.MeasuredValueSequence); measured != nil {
		items := sequenceItems(measured)
		if len(items) > 0 {
			if num := findInItem(itemElements(items[0]), tag.NumericValue); num != nil {
				return firstString(num), true
			}
		}
		return "", false
	}

	for _, t := range []tag.Tag{tag.TextValue, tag.DateTime, tag.UID, tag.PersonName} {
		if elem := findInItem(elements, t); elem != nil {
			return firstString(elem), true
		}
	}

	return "", false
}

// sequenceItems returns the items of a sequence element, nil for anything
// that is not a sequence.
func sequenceItems(elem *dicom.Element) []*dicom.SequenceItemValue {
	items, _ := elem.Value.GetValue().([]*dicom.SequenceItemValue)
	return items
}

// itemElements returns the elements of one sequence item.
func itemElements(item *dicom.SequenceItemValue) []*dicom.Element {
	elements, _ := item.GetValue().([]*dicom.Element)
	return elements
}

// findInItem looks up a tag among a sequence item's elements. Nested items
// are not part of a dataset, so Dataset.FindElementByTag does not apply.
func findInItem(elements []*dicom.Element, t tag.Tag) *dicom.Element {
	for _, elem := range elements {
		if elem.Tag == t {
			return elem
		}
	}
	return nil
}

// firstString extracts a single string from an element value.
func firstString(elem *dicom.Element) string {
	if ss, ok := elem.Value.GetValue().([]string); ok {
		if len(ss) == 0 {
			return ""
		}
		return strings.TrimSpace(ss[0])
	}
	return strings.TrimSpace(strings.Trim(elem.Value.String(), " []"))
}
