package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser"
	"github.com/mrsinham/rdsrsummary/internal/chart"
	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/mrsinham/rdsrsummary/internal/report"
	"github.com/mrsinham/rdsrsummary/internal/session"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Check for browse subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "browse" {
		// Extract --from flag if present
		var fromConfig string
		for i, arg := range os.Args[2:] {
			if arg == "--from" && i+3 < len(os.Args) {
				fromConfig = os.Args[i+3]
			}
		}
		if err := browser.Run(fromConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Define command-line flags
	input := flag.String("input", "", "Folder containing RDSR .dcm files (required)")

	// Filter options (repeatable)
	var equalsFlags, containsFlags, rangeFlags []string
	flag.Func("equals", "Exact-match filter: 'Field=Value' (repeatable)", func(s string) error {
		equalsFlags = append(equalsFlags, s)
		return nil
	})
	flag.Func("contains", "Substring filter: 'Field=Value' (repeatable, case-insensitive)", func(s string) error {
		containsFlags = append(containsFlags, s)
		return nil
	})
	flag.Func("range", "Numeric range filter: 'Field=MIN:MAX' (repeatable, inclusive)", func(s string) error {
		rangeFlags = append(rangeFlags, s)
		return nil
	})
	startDate := flag.String("start-date", "", "Keep records dated on or after this date (YYYYMMDD)")
	endDate := flag.String("end-date", "", "Keep records dated on or before this date (YYYYMMDD)")
	ignoreCase := flag.Bool("ignore-case", false, "Case-insensitive exact-match filters")

	// Analysis options
	summary := flag.Bool("summary", false, "Print aggregate statistics for the filtered records")
	duplicates := flag.Bool("duplicates", false, "Print patients with more than one exposure record")
	sameDay := flag.Int("same-day", 0, "Print patient/day groups with at least N records")
	timeline := flag.Bool("timeline", false, "Print exposure counts per day")
	histogramField := flag.String("histogram", "", "Print a histogram of this numeric field")
	bins := flag.Int("bins", report.DefaultBins, "Number of histogram bins")
	chartPath := flag.String("chart", "", "Also render the histogram or timeline as a PNG file")

	// Export options
	exportPath := flag.String("export", "", "Export the filtered records to this file")
	format := flag.String("format", "csv", "Export format: csv, xlsx")

	// Interactive browser and config options
	interactive := flag.Bool("interactive", false, "Launch interactive browser")
	flag.BoolVar(interactive, "i", false, "Launch interactive browser (shortcut)")
	configFile := flag.String("config", "", "Load folder and filters from a YAML file")
	saveConfig := flag.String("save-config", "", "Save folder and filters to a YAML file")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	// Handle interactive mode
	if *interactive {
		if err := browser.Run(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Show version
	if *showVersion {
		fmt.Printf("rdsrsummary %s\n", version)
		os.Exit(0)
	}

	// Show help
	if *help {
		printHelp()
		os.Exit(0)
	}

	state := &browser.State{Input: *input}

	// Handle config file loading; flags override the loaded values.
	if *configFile != "" {
		loaded, err := browser.LoadFromYAML(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		state = loaded
		if *input != "" {
			state.Input = *input
		}
	}

	// Fold filter flags into the state
	if err := applyFilterFlags(state, equalsFlags, containsFlags, rangeFlags, *startDate, *endDate, *ignoreCase); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if state.Input == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n")
		printUsage()
		os.Exit(1)
	}

	if *format != "csv" && *format != "xlsx" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, valid options: csv, xlsx\n", *format)
		os.Exit(1)
	}

	spec, err := browser.ToFilterSpec(state.Filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Load the folder
	sess := session.New()
	loaded, skipped, err := sess.Load(state.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading folder: %v\n", err)
		os.Exit(1)
	}
	sess.SetFilter(spec)

	fmt.Println("rdsrsummary")
	fmt.Println("===========")
	fmt.Printf("Loaded %d records from %s", loaded, state.Input)
	if skipped > 0 {
		fmt.Printf(" (%d files skipped)", skipped)
	}
	fmt.Println()

	filtered := sess.Filtered()
	if !spec.Empty() {
		fmt.Printf("Filters keep %d of %d records\n", len(filtered), loaded)
	}
	fmt.Println()

	ranAction := false

	if *summary {
		printSummary(sess)
		ranAction = true
	}

	if *duplicates {
		printDuplicates(sess)
		ranAction = true
	}

	if *sameDay > 0 {
		printSameDay(sess, *sameDay)
		ranAction = true
	}

	if *timeline {
		printTimeline(sess, *chartPath, *histogramField == "")
		ranAction = true
	}

	if *histogramField != "" {
		printHistogram(sess, *histogramField, *bins, *chartPath)
		ranAction = true
	}

	if *exportPath != "" {
		runExport(sess, *exportPath, *format)
		ranAction = true
	}

	// Save config if requested
	if *saveConfig != "" {
		if err := browser.SaveToYAML(state, *saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		} else {
			fmt.Printf("Configuration saved to %s\n", *saveConfig)
		}
	}

	// With no action flags, show a preview of the filtered table.
	if !ranAction {
		printPreview(filtered)
	}
}

// applyFilterFlags parses the repeatable filter flags into the state.
func applyFilterFlags(state *browser.State, equals, contains, ranges []string, startDate, endDate string, ignoreCase bool) error {
	for _, s := range equals {
		field, value, err := splitAssignment(s)
		if err != nil {
			return fmt.Errorf("--equals: %w", err)
		}
		if state.Filter.Equals == nil {
			state.Filter.Equals = make(map[string]string)
		}
		state.Filter.Equals[field] = value
	}

	for _, s := range contains {
		field, value, err := splitAssignment(s)
		if err != nil {
			return fmt.Errorf("--contains: %w", err)
		}
		if state.Filter.Contains == nil {
			state.Filter.Contains = make(map[string]string)
		}
		state.Filter.Contains[field] = value
	}

	for _, s := range ranges {
		field, value, err := splitAssignment(s)
		if err != nil {
			return fmt.Errorf("--range: %w", err)
		}
		r, err := browser.ParseRange(value)
		if err != nil {
			return fmt.Errorf("--range %s: %w", field, err)
		}
		if state.Filter.Ranges == nil {
			state.Filter.Ranges = make(map[string]browser.RangeState)
		}
		state.Filter.Ranges[field] = r
	}

	if startDate != "" {
		state.Filter.StartDate = startDate
	}
	if endDate != "" {
		state.Filter.EndDate = endDate
	}
	if ignoreCase {
		state.Filter.IgnoreCase = true
	}
	return nil
}

// splitAssignment splits 'Field=Value' at the first '='.
func splitAssignment(s string) (field, value string, err error) {
	field, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return "", "", fmt.Errorf("expected 'Field=Value', got %q", s)
	}
	return strings.TrimSpace(field), value, nil
}

func printSummary(sess *session.Session) {
	stats := sess.Summary()
	if len(stats) == 0 {
		fmt.Println("Summary: no numeric fields in the filtered records")
		fmt.Println()
		return
	}

	fmt.Println("Summary statistics (filtered records)")
	fmt.Printf("  %-36s %6s %10s %10s %10s %10s %10s\n", "Field", "Count", "Mean", "Median", "Min", "Max", "StdDev")
	for _, st := range stats {
		if st.Count == 0 {
			fmt.Printf("  %-36s %6d %10s %10s %10s %10s %10s\n", st.Field, 0, "-", "-", "-", "-", "-")
			continue
		}
		fmt.Printf("  %-36s %6d %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			st.Field, st.Count, st.Mean, st.Median, st.Min, st.Max, st.StdDev)
	}
	fmt.Println()
}

func printDuplicates(sess *session.Session) {
	dupes := sess.Duplicates()
	if len(dupes) == 0 {
		fmt.Println("Multiple exposures: none")
		fmt.Println()
		return
	}

	fmt.Println("Multiple exposures (records per patient)")
	for _, id := range sortedKeys(dupes) {
		fmt.Printf("  %-24s %d\n", id, dupes[id])
	}
	fmt.Println()
}

func printSameDay(sess *session.Session, threshold int) {
	groups := sess.SameDay(threshold)
	if len(groups) == 0 {
		fmt.Printf("Same-day exposures: no patient with >= %d records on one day\n\n", threshold)
		return
	}

	fmt.Printf("Same-day exposures (>= %d records on one day)\n", threshold)
	for _, g := range groups {
		fmt.Printf("  %s  %-24s %d exposures\n", g.Date.Format("2006-01-02"), g.PatientID, len(g.Records))
	}
	fmt.Println()
}

func printTimeline(sess *session.Session, chartPath string, renderChart bool) {
	points := sess.Timeline()
	if len(points) == 0 {
		fmt.Println("Timeline: no records with both patient ID and date")
		fmt.Println()
		return
	}

	fmt.Println("Exposures per day")
	for _, p := range points {
		fmt.Printf("  %s  %4d  %s\n", p.Date.Format("2006-01-02"), p.Count, bar(p.Count, maxCount(points)))
	}
	fmt.Println()

	if chartPath != "" && renderChart {
		if err := chart.RenderTimeline(points, chartPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Chart written to %s\n\n", chartPath)
	}
}

func printHistogram(sess *session.Session, field string, bins int, chartPath string) {
	h, err := sess.Histogram(field, bins)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: histogram of %s: %v\n", field, err)
		os.Exit(1)
	}

	fmt.Printf("Histogram of %s (%d values", field, h.Total())
	if h.Excluded > 0 {
		fmt.Printf(", %d records without a value", h.Excluded)
	}
	fmt.Println(")")

	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}
	for i, c := range h.Counts {
		fmt.Printf("  [%10.4g, %10.4g)  %4d  %s\n", h.Edges[i], h.Edges[i+1], c, bar(c, peak))
	}
	fmt.Println()

	if chartPath != "" {
		if err := chart.RenderHistogram(h, chartPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Chart written to %s\n\n", chartPath)
	}
}

func runExport(sess *session.Session, path, format string) {
	var (
		rows int
		err  error
	)
	if format == "xlsx" {
		rows, err = sess.ExportXLSX(path)
	} else {
		rows, err = sess.ExportCSV(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d records to %s\n\n", rows, path)
}

// printPreview prints the first rows of the filtered table when no action
// flag was given.
func printPreview(records []rdsr.ExposureRecord) {
	const maxRows = 15

	fmt.Printf("  %-16s %-10s %-20s %-28s %12s %12s\n",
		"Patient ID", "Date", "Station", "Protocol", "CTDIvol", "DLP")
	for i, rec := range records {
		if i == maxRows {
			fmt.Printf("  ... %d more records\n", len(records)-maxRows)
			break
		}
		id := "-"
		if rec.HasPatientID {
			id = rec.PatientID
		}
		date := "-"
		if rec.ContentDate != nil {
			date = rec.ContentDate.Format("2006-01-02")
		}
		fmt.Printf("  %-16s %-10s %-20s %-28s %12s %12s\n",
			id, date,
			rawOrDash(rec, "StationName"),
			rawOrDash(rec, "Acquisition Protocol"),
			rawOrDash(rec, "Mean CTDIvol"),
			rawOrDash(rec, "DLP"))
	}
	fmt.Println()
	fmt.Println("Run with --help for filter, summary and export options, or 'rdsrsummary browse' for the interactive browser.")
}

func rawOrDash(rec rdsr.ExposureRecord, field string) string {
	if v, ok := rec.RawValue(field); ok {
		return v
	}
	return "-"
}

// bar renders a proportional text bar scaled to the peak count.
func bar(count, peak int) string {
	const width = 40
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func maxCount(points []report.DateCount) int {
	peak := 0
	for _, p := range points {
		if p.Count > peak {
			peak = p.Count
		}
	}
	return peak
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  rdsrsummary --input <DIR> [options]")
	fmt.Fprintln(os.Stderr, "  rdsrsummary browse [--from <config.yaml>]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("rdsrsummary")
	fmt.Println("===========")
	fmt.Println()
	fmt.Println("Summarize DICOM Radiation Dose Structured Reports (RDSR).")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rdsrsummary --input <DIR> [options]")
	fmt.Println("  rdsrsummary browse [--from <config.yaml>]")
	fmt.Println()
	fmt.Println("Required arguments:")
	fmt.Println("  --input <DIR>         Folder containing RDSR .dcm files")
	fmt.Println()
	fmt.Println("Filter options:")
	fmt.Println("  --equals <F=V>        Keep records where field F equals V exactly (repeatable)")
	fmt.Println("  --contains <F=V>      Keep records where field F contains V,")
	fmt.Println("                        case-insensitive (repeatable)")
	fmt.Println("  --range <F=MIN:MAX>   Keep records where numeric field F is within")
	fmt.Println("                        [MIN, MAX] inclusive (repeatable)")
	fmt.Println("  --start-date <DATE>   Keep records dated on or after DATE (YYYYMMDD)")
	fmt.Println("  --end-date <DATE>     Keep records dated on or before DATE (YYYYMMDD)")
	fmt.Println("  --ignore-case         Case-insensitive --equals comparisons")
	fmt.Println()
	fmt.Println("  Records missing a field never match a --range or date filter on it.")
	fmt.Println()
	fmt.Println("Analysis options:")
	fmt.Println("  --summary             Aggregate statistics per numeric field")
	fmt.Println("  --duplicates          Patients with more than one exposure record")
	fmt.Println("  --same-day <N>        Patient/day groups with at least N records")
	fmt.Println("  --timeline            Exposure counts per day")
	fmt.Println("  --histogram <FIELD>   Distribution of a numeric field")
	fmt.Println("  --bins <N>            Number of histogram bins (default: 20)")
	fmt.Println("  --chart <FILE.png>    Also render the histogram or timeline as a PNG")
	fmt.Println()
	fmt.Println("Export options:")
	fmt.Println("  --export <FILE>       Export the filtered records")
	fmt.Println("  --format <FMT>        Export format: csv, xlsx (default: csv)")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --config <FILE>       Load folder and filters from a YAML file")
	fmt.Println("  --save-config <FILE>  Save folder and filters to a YAML file")
	fmt.Println()
	fmt.Println("  --version             Show version")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Browse a folder interactively")
	fmt.Println("  rdsrsummary browse")
	fmt.Println()
	fmt.Println("  # Statistics for one scanner")
	fmt.Println("  rdsrsummary --input ./rdsr --equals \"StationName=CT01\" --summary")
	fmt.Println()
	fmt.Println("  # Head protocols with a high dose-length product")
	fmt.Println("  rdsrsummary --input ./rdsr --contains \"Acquisition Protocol=head\" --range \"DLP=1000:10000\"")
	fmt.Println()
	fmt.Println("  # Exposures of January 2024, exported to a spreadsheet")
	fmt.Println("  rdsrsummary --input ./rdsr --start-date 20240101 --end-date 20240131 --export january.xlsx --format xlsx")
	fmt.Println()
	fmt.Println("  # Histogram of CTDIvol, rendered as a PNG")
	fmt.Println("  rdsrsummary --input ./rdsr --histogram \"Mean CTDIvol\" --chart ctdivol.png")
	fmt.Println()
	fmt.Println("  # Patients with three or more exposures on the same day")
	fmt.Println("  rdsrsummary --input ./rdsr --same-day 3")
}
