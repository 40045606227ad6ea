package browser

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleState() *State {
	return &State{
		Input: "/data/rdsr",
		Filter: FilterState{
			Equals:    map[string]string{"StationName": "CT01"},
			Contains:  map[string]string{"Acquisition Protocol": "thorax"},
			Ranges:    map[string]RangeState{"DLP": {Min: 100, Max: 900}},
			StartDate: "20240101",
			EndDate:   "20241231",
		},
		Histogram: HistogramState{Field: "DLP", Bins: 25, Chart: "dlp.png"},
		Export:    ExportState{Path: "out.xlsx", Format: "xlsx"},
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	saved := sampleState()
	if err := SaveToYAML(saved, path); err != nil {
		t.Fatalf("SaveToYAML: %v", err)
	}

	loaded, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	if loaded.Input != saved.Input {
		t.Errorf("input = %q, want %q", loaded.Input, saved.Input)
	}
	if loaded.Filter.Equals["StationName"] != "CT01" {
		t.Errorf("equals = %v", loaded.Filter.Equals)
	}
	if r := loaded.Filter.Ranges["DLP"]; r.Min != 100 || r.Max != 900 {
		t.Errorf("DLP range = %+v", r)
	}
	if loaded.Histogram.Bins != 25 {
		t.Errorf("bins = %d, want 25", loaded.Histogram.Bins)
	}
	if loaded.Export.Format != "xlsx" {
		t.Errorf("format = %q, want xlsx", loaded.Export.Format)
	}
}

func TestLoadFromYAML_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("bad date", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		state := sampleState()
		state.Filter.StartDate = "2024-01-01"
		if err := SaveToYAML(state, path); err != nil {
			t.Fatalf("SaveToYAML: %v", err)
		}
		if _, err := LoadFromYAML(path); err == nil {
			t.Fatal("expected a date format error")
		}
	})
}

func TestToFilterSpec(t *testing.T) {
	spec, err := ToFilterSpec(sampleState().Filter)
	if err != nil {
		t.Fatalf("ToFilterSpec: %v", err)
	}

	if spec.Equals["StationName"] != "CT01" {
		t.Errorf("equals = %v", spec.Equals)
	}
	if spec.Dates == nil || spec.Dates.Start == nil || spec.Dates.End == nil {
		t.Fatal("dates not converted")
	}
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !spec.Dates.Start.Equal(want) {
		t.Errorf("start = %v, want %v", spec.Dates.Start, want)
	}
}

func TestToFilterSpec_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterState
	}{
		{"inverted range", FilterState{Ranges: map[string]RangeState{"DLP": {Min: 500, Max: 100}}}},
		{"bad start date", FilterState{StartDate: "Jan 2024"}},
		{"bad end date", FilterState{EndDate: "20241335"}},
		{"start after end", FilterState{StartDate: "20240601", EndDate: "20240101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToFilterSpec(tt.filter); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" 10 : 250.5 ")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Min != 10 || r.Max != 250.5 {
		t.Errorf("range = %+v", r)
	}

	for _, s := range []string{"10", "a:b", "5:", ":5", "9:1"} {
		if _, err := ParseRange(s); err == nil {
			t.Errorf("ParseRange(%q) accepted invalid input", s)
		}
	}
}

func TestFilterStateDescribe(t *testing.T) {
	if got := (FilterState{}).Describe(); got != "none" {
		t.Errorf("empty filter described as %q", got)
	}

	desc := sampleState().Filter.Describe()
	for _, want := range []string{"StationName=CT01", "Acquisition Protocol~thorax", "DLP in [100, 900]", "from 20240101", "to 20241231"} {
		if !strings.Contains(desc, want) {
			t.Errorf("description %q is missing %q", desc, want)
		}
	}
}
