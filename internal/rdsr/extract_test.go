package rdsr

import (
	"fmt"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// conceptNameSeq builds a ConceptNameCodeSequence naming a content item.
func conceptNameSeq(meaning string) *dicom.Element {
	return mustNewElement(tag.ConceptNameCodeSequence, [][]*dicom.Element{{
		mustNewElement(tag.CodeValue, []string{"113830"}),
		mustNewElement(tag.CodingSchemeDesignator, []string{"DCM"}),
		mustNewElement(tag.CodeMeaning, []string{meaning}),
	}})
}

// numItem builds a NUM content item carrying a measured value.
func numItem(meaning, value string) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.ValueType, []string{"NUM"}),
		conceptNameSeq(meaning),
		mustNewElement(tag.MeasuredValueSequence, [][]*dicom.Element{{
			mustNewElement(tag.NumericValue, []string{value}),
		}}),
	}
}

// textItem builds a TEXT content item.
func textItem(meaning, value string) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.ValueType, []string{"TEXT"}),
		conceptNameSeq(meaning),
		mustNewElement(tag.TextValue, []string{value}),
	}
}

// containerItem builds a CONTAINER content item holding nested items.
func containerItem(meaning string, nested ...[]*dicom.Element) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.ValueType, []string{"CONTAINER"}),
		conceptNameSeq(meaning),
		mustNewElement(tag.ContentSequence, nested),
	}
}

func reportDataset(topLevel []*dicom.Element, items ...[]*dicom.Element) dicom.Dataset {
	elements := append([]*dicom.Element{}, topLevel...)
	if len(items) > 0 {
		elements = append(elements, mustNewElement(tag.ContentSequence, items))
	}
	return dicom.Dataset{Elements: elements}
}

func TestExtract_NumericContentItem(t *testing.T) {
	ds := reportDataset(nil,
		numItem("Mean CTDIvol", "12.5"),
		numItem("DLP", "430.75"),
	)

	rec := Extract(ds)

	if v, ok := rec.NumericValue("Mean CTDIvol"); !ok || v != 12.5 {
		t.Errorf("Mean CTDIvol = %v, %v; want 12.5, true", v, ok)
	}
	if v, ok := rec.NumericValue("DLP"); !ok || v != 430.75 {
		t.Errorf("DLP = %v, %v; want 430.75, true", v, ok)
	}
	if raw, ok := rec.RawValue("DLP"); !ok || raw != "430.75" {
		t.Errorf("raw DLP = %q, %v; want \"430.75\", true", raw, ok)
	}
}

func TestExtract_TextContentItem(t *testing.T) {
	ds := reportDataset(nil, textItem("Acquisition Protocol", "Head Routine"))

	rec := Extract(ds)

	if v, ok := rec.RawValue("Acquisition Protocol"); !ok || v != "Head Routine" {
		t.Errorf("Acquisition Protocol = %q, %v; want \"Head Routine\", true", v, ok)
	}
	if _, ok := rec.NumericValue("Acquisition Protocol"); ok {
		t.Error("a text value must not appear as a numeric field")
	}
}

func TestExtract_NestedContainers(t *testing.T) {
	ds := reportDataset(nil,
		containerItem("CT Acquisition",
			containerItem("CT Dose",
				numItem("Mean CTDIvol", "8.25"),
			),
			numItem("KVP", "120"),
		),
	)

	rec := Extract(ds)

	if v, ok := rec.NumericValue("Mean CTDIvol"); !ok || v != 8.25 {
		t.Errorf("nested Mean CTDIvol = %v, %v; want 8.25, true", v, ok)
	}
	if v, ok := rec.NumericValue("KVP"); !ok || v != 120 {
		t.Errorf("nested KVP = %v, %v; want 120, true", v, ok)
	}
}

func TestExtract_IgnoresUnknownConcepts(t *testing.T) {
	ds := reportDataset(nil,
		textItem("Comment", "not a target"),
		numItem("DLP", "100"),
	)

	rec := Extract(ds)

	if _, ok := rec.RawValue("Comment"); ok {
		t.Error("a concept outside the target set must not be extracted")
	}
	if _, ok := rec.NumericValue("DLP"); !ok {
		t.Error("target concepts must still be extracted")
	}
}

func TestExtract_TopLevelOverridesContentItem(t *testing.T) {
	ds := reportDataset(
		[]*dicom.Element{
			mustNewElement(tag.PatientID, []string{"P100"}),
		},
		textItem("PatientID", "P999"),
	)

	rec := Extract(ds)

	if !rec.HasPatientID || rec.PatientID != "P100" {
		t.Errorf("PatientID = %q (has=%v), want top-level P100", rec.PatientID, rec.HasPatientID)
	}
}

func TestExtract_MissingPatientID(t *testing.T) {
	ds := reportDataset(nil, numItem("DLP", "50"))

	rec := Extract(ds)

	if rec.HasPatientID {
		t.Error("HasPatientID must be false when the source has no patient ID")
	}
	if rec.PatientID != "" {
		t.Errorf("PatientID = %q, want empty", rec.PatientID)
	}
}

func TestExtract_ContentDate(t *testing.T) {
	ds := reportDataset([]*dicom.Element{
		mustNewElement(tag.ContentDate, []string{"20240115"}),
	})

	rec := Extract(ds)

	if rec.ContentDate == nil {
		t.Fatal("ContentDate not parsed")
	}
	if got := rec.ContentDate.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("ContentDate = %s, want 2024-01-15", got)
	}
}

func TestExtract_UnparseableContentDate(t *testing.T) {
	ds := reportDataset([]*dicom.Element{
		mustNewElement(tag.ContentDate, []string{"Jamais"}),
	})

	rec := Extract(ds)

	if rec.ContentDate != nil {
		t.Errorf("ContentDate = %v, want nil for an unparseable date", rec.ContentDate)
	}
	if raw, ok := rec.RawValue("ContentDate"); !ok || raw != "Jamais" {
		t.Errorf("raw ContentDate = %q, %v; the original text must be kept", raw, ok)
	}
}

func TestExtract_EmptyMeasuredValueSequence(t *testing.T) {
	item := []*dicom.Element{
		mustNewElement(tag.ValueType, []string{"NUM"}),
		conceptNameSeq("DLP"),
		mustNewElement(tag.MeasuredValueSequence, [][]*dicom.Element{}),
	}
	ds := reportDataset(nil, item)

	rec := Extract(ds)

	if _, ok := rec.RawValue("DLP"); ok {
		t.Error("an empty measured value sequence must leave the field absent")
	}
}

func TestExtract_EmptyDataset(t *testing.T) {
	rec := Extract(dicom.Dataset{})

	if len(rec.Raw) != 0 || len(rec.Numeric) != 0 {
		t.Errorf("empty dataset produced fields: raw=%v numeric=%v", rec.Raw, rec.Numeric)
	}
	if rec.HasPatientID || rec.ContentDate != nil {
		t.Error("empty dataset must produce a fully null record")
	}
}
