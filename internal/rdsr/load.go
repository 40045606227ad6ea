package rdsr

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/suyashkumar/dicom"
)

// LoadFolder recursively reads every .dcm file under dir, extracts one record
// per readable report, and returns the records in walk order together with
// the number of skipped files. A file is skipped when it cannot be parsed or
// contains none of the target concepts; a skip never aborts the batch. The
// returned error is non-nil only when the folder itself cannot be walked.
func LoadFolder(dir string) ([]ExposureRecord, int, error) {
	var records []ExposureRecord
	skipped := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".dcm") {
			return nil
		}

		ds, err := readDataset(path)
		if err != nil {
			skipped++
			return nil
		}

		rec := Extract(ds)
		if len(rec.Raw) == 0 {
			// Parsed, but not a report we understand.
			skipped++
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", dir, err)
	}

	return records, skipped, nil
}

// readDataset parses a DICOM file element-by-element, tolerating errors in
// individual elements. Everything parsed before the first bad element is
// kept, so a malformed trailing tag does not discard a report's good fields.
func readDataset(path string) (dicom.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dicom.Dataset{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return dicom.Dataset{}, err
	}

	p, err := dicom.NewParser(f, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return dicom.Dataset{}, err
	}

	var elements []*dicom.Element
	for {
		elem, err := p.Next()
		if err != nil {
			break
		}
		elements = append(elements, elem)
	}

	if len(elements) == 0 {
		return dicom.Dataset{}, fmt.Errorf("no elements parsed")
	}

	ds := dicom.Dataset{Elements: elements}
	meta := p.GetMetadata()
	ds.Elements = append(meta.Elements, ds.Elements...)

	return ds, nil
}
