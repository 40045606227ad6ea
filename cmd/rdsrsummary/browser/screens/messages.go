package screens

// LoadedMsg is sent when a folder has been read and parsed.
type LoadedMsg struct {
	Loaded  int // Records extracted
	Skipped int // Files that could not be parsed or held no data
}

// ExportedMsg is sent when an export completes successfully.
type ExportedMsg struct {
	Rows int    // Data rows written
	Path string // Destination file
}

// RenderedMsg is sent when a chart has been written to disk.
type RenderedMsg struct {
	Path string
}

// ErrorMsg is sent when a background operation fails.
type ErrorMsg struct {
	Error error
}
