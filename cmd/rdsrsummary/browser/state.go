// Package browser provides an interactive TUI for exploring RDSR folders.
package browser

// State holds the complete state for the browser interface. It is also the
// YAML configuration format for --config and --save-config.
type State struct {
	Input     string         `yaml:"input"`
	Filter    FilterState    `yaml:"filter,omitempty"`
	Histogram HistogramState `yaml:"histogram,omitempty"`
	Export    ExportState    `yaml:"export,omitempty"`
}

// FilterState holds the filter settings in serializable form.
type FilterState struct {
	Equals     map[string]string     `yaml:"equals,omitempty"`
	Contains   map[string]string     `yaml:"contains,omitempty"`
	Ranges     map[string]RangeState `yaml:"ranges,omitempty"`
	StartDate  string                `yaml:"start_date,omitempty"`
	EndDate    string                `yaml:"end_date,omitempty"`
	IgnoreCase bool                  `yaml:"ignore_case,omitempty"`
}

// RangeState holds an inclusive numeric range.
type RangeState struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// HistogramState holds the last histogram settings.
type HistogramState struct {
	Field string `yaml:"field,omitempty"`
	Bins  int    `yaml:"bins,omitempty"`
	Chart string `yaml:"chart,omitempty"`
}

// ExportState holds the last export settings.
type ExportState struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Empty reports whether no filter is configured.
func (f FilterState) Empty() bool {
	return len(f.Equals) == 0 &&
		len(f.Contains) == 0 &&
		len(f.Ranges) == 0 &&
		f.StartDate == "" &&
		f.EndDate == ""
}
