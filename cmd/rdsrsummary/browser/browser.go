package browser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/screens"
	"github.com/mrsinham/rdsrsummary/internal/chart"
	"github.com/mrsinham/rdsrsummary/internal/rdsr"
	"github.com/mrsinham/rdsrsummary/internal/report"
	"github.com/mrsinham/rdsrsummary/internal/session"
)

// Phase represents the current phase/screen of the browser.
type Phase int

const (
	PhaseFolder Phase = iota
	PhaseLoading
	PhaseBrowse
	PhaseFilter
	PhaseHistogram
	PhaseExport
	PhaseReport
	PhaseSaveConfig
	PhaseError
)

// Browser is the main orchestrator for the interactive interface.
type Browser struct {
	state *State
	sess  *session.Session

	// Current phase
	phase Phase

	// Screen instances
	folderScreen    *screens.FolderScreen
	browseScreen    *screens.BrowseScreen
	filterScreen    *screens.FilterScreen
	histogramScreen *screens.HistogramScreen
	exportScreen    *screens.ExportScreen
	reportScreen    *screens.ReportScreen
	errorScreen     *screens.ErrorScreen

	// Save config form
	saveConfigForm *huh.Form
	configPath     string

	// An export is running in the background
	exporting bool

	// Window size
	width  int
	height int

	// Final state
	cancelled bool
	err       error
}

// NewBrowser creates a new browser with default or loaded state.
func NewBrowser(state *State) *Browser {
	if state == nil {
		state = &State{}
	}

	b := &Browser{
		state: state,
		sess:  session.New(),
		phase: PhaseFolder,
	}

	b.folderScreen = screens.NewFolderScreen(state.Input)
	b.browseScreen = screens.NewBrowseScreen()

	// A preloaded config skips the folder prompt
	if state.Input != "" {
		b.phase = PhaseLoading
	}

	return b
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	if b.phase == PhaseLoading {
		return b.loadCmd(b.state.Input)
	}
	return b.folderScreen.Init()
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window size for all phases
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		b.width = wsm.Width
		b.height = wsm.Height
	}

	switch b.phase {
	case PhaseFolder:
		return b.updateFolder(msg)
	case PhaseLoading:
		return b.updateLoading(msg)
	case PhaseBrowse:
		return b.updateBrowse(msg)
	case PhaseFilter:
		return b.updateFilter(msg)
	case PhaseHistogram:
		return b.updateHistogram(msg)
	case PhaseExport:
		return b.updateExport(msg)
	case PhaseReport:
		return b.updateReport(msg)
	case PhaseSaveConfig:
		return b.updateSaveConfig(msg)
	case PhaseError:
		return b.updateError(msg)
	}

	return b, nil
}

// View implements tea.Model.
func (b *Browser) View() string {
	switch b.phase {
	case PhaseFolder:
		return b.folderScreen.View()
	case PhaseLoading:
		return b.viewLoading()
	case PhaseBrowse:
		return b.browseScreen.View()
	case PhaseFilter:
		return b.filterScreen.View()
	case PhaseHistogram:
		return b.histogramScreen.View()
	case PhaseExport:
		return b.exportScreen.View()
	case PhaseReport:
		return b.reportScreen.View()
	case PhaseSaveConfig:
		return b.viewSaveConfig()
	case PhaseError:
		return b.errorScreen.View()
	}

	return ""
}

// updateFolder handles updates in the folder selection phase.
func (b *Browser) updateFolder(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.folderScreen.Update(msg)
	if fs, ok := model.(*screens.FolderScreen); ok {
		b.folderScreen = fs
	}

	if b.folderScreen.Cancelled() {
		b.cancelled = true
		return b, tea.Quit
	}

	if b.folderScreen.Done() {
		b.state.Input = b.folderScreen.Path()
		b.phase = PhaseLoading
		return b, b.loadCmd(b.state.Input)
	}

	return b, cmd
}

// loadCmd reads and parses the folder in the background.
func (b *Browser) loadCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		loaded, skipped, err := b.sess.Load(dir)
		if err != nil {
			return screens.ErrorMsg{Error: err}
		}
		return screens.LoadedMsg{Loaded: loaded, Skipped: skipped}
	}
}

// updateLoading waits for the folder to finish loading.
func (b *Browser) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.LoadedMsg:
		if err := b.applyStateFilter(); err != nil {
			return b.showError(err)
		}
		return b.transitionToBrowse()

	case screens.ErrorMsg:
		return b.showError(msg.Error)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			b.cancelled = true
			return b, tea.Quit
		}
	}

	return b, nil
}

func (b *Browser) viewLoading() string {
	title := components.TitleStyle.Render("RDSR SUMMARY")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		fmt.Sprintf("Reading %s ...", b.state.Input),
		"",
		components.HintStyle.Render("Press Ctrl+C to cancel"),
	)
}

// applyStateFilter pushes the configured filter into the session.
func (b *Browser) applyStateFilter() error {
	spec, err := ToFilterSpec(b.state.Filter)
	if err != nil {
		return err
	}
	b.sess.SetFilter(spec)
	return nil
}

// transitionToBrowse refreshes the record table and shows it.
func (b *Browser) transitionToBrowse() (tea.Model, tea.Cmd) {
	b.phase = PhaseBrowse
	b.browseScreen.SetRecords(
		b.sess.Filtered(),
		len(b.sess.Records()),
		b.sess.Skipped(),
		b.state.Filter.Describe(),
	)
	return b, nil
}

// updateBrowse handles updates in the record table phase.
func (b *Browser) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.browseScreen.Update(msg)
	if bs, ok := model.(*screens.BrowseScreen); ok {
		b.browseScreen = bs
	}

	if b.browseScreen.Cancelled() {
		b.cancelled = true
		return b, tea.Quit
	}

	switch b.browseScreen.TakeAction() {
	case screens.ActionFilter:
		b.phase = PhaseFilter
		b.filterScreen = screens.NewFilterScreen(b.filterFields())
		return b, b.filterScreen.Init()

	case screens.ActionClearFilter:
		b.state.Filter = FilterState{}
		b.sess.ClearFilter()
		return b.transitionToBrowse()

	case screens.ActionSummary:
		b.phase = PhaseReport
		b.reportScreen = screens.NewReportScreen("SUMMARY", b.summaryBody())
		return b, nil

	case screens.ActionDuplicates:
		b.phase = PhaseReport
		b.reportScreen = screens.NewReportScreen("REPEATED EXPOSURES", b.duplicatesBody())
		return b, nil

	case screens.ActionTimeline:
		b.phase = PhaseReport
		b.reportScreen = screens.NewReportScreen("EXPOSURES PER DAY", b.timelineBody())
		return b, nil

	case screens.ActionHistogram:
		fields := b.sess.NumericFields()
		if len(fields) == 0 {
			return b.showError(fmt.Errorf("no numeric fields in the filtered records"))
		}
		bins := b.state.Histogram.Bins
		if bins < 1 {
			bins = report.DefaultBins
		}
		b.phase = PhaseHistogram
		b.histogramScreen = screens.NewHistogramScreen(fields, bins, b.state.Histogram.Chart)
		return b, b.histogramScreen.Init()

	case screens.ActionExport:
		b.phase = PhaseExport
		b.exportScreen = screens.NewExportScreen(b.state.Export.Path, b.state.Export.Format)
		return b, b.exportScreen.Init()

	case screens.ActionReload:
		b.phase = PhaseLoading
		return b, b.loadCmd(b.state.Input)

	case screens.ActionFolder:
		b.phase = PhaseFolder
		b.folderScreen = screens.NewFolderScreen(b.state.Input)
		return b, b.folderScreen.Init()

	case screens.ActionSaveConfig:
		return b.transitionToSaveConfig()
	}

	return b, cmd
}

// filterFields lists field name suggestions for the filter screen.
func (b *Browser) filterFields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, name := range rdsr.TargetConcepts() {
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

// updateFilter handles updates in the filter entry phase.
func (b *Browser) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.filterScreen.Update(msg)
	if fs, ok := model.(*screens.FilterScreen); ok {
		b.filterScreen = fs
	}

	if b.filterScreen.Cancelled() {
		return b.transitionToBrowse()
	}

	if b.filterScreen.Done() {
		if err := b.addFilter(b.filterScreen.Kind(), b.filterScreen.Field(), b.filterScreen.Value()); err != nil {
			return b.showError(err)
		}
		if err := b.applyStateFilter(); err != nil {
			return b.showError(err)
		}
		return b.transitionToBrowse()
	}

	return b, cmd
}

// addFilter merges one filter criterion into the state.
func (b *Browser) addFilter(kind, field, value string) error {
	if kind != screens.FilterDates && field == "" {
		return fmt.Errorf("field is required")
	}

	switch kind {
	case screens.FilterEquals:
		if b.state.Filter.Equals == nil {
			b.state.Filter.Equals = make(map[string]string)
		}
		b.state.Filter.Equals[field] = value

	case screens.FilterContains:
		if b.state.Filter.Contains == nil {
			b.state.Filter.Contains = make(map[string]string)
		}
		b.state.Filter.Contains[field] = value

	case screens.FilterRange:
		r, err := ParseRange(value)
		if err != nil {
			return err
		}
		if b.state.Filter.Ranges == nil {
			b.state.Filter.Ranges = make(map[string]RangeState)
		}
		b.state.Filter.Ranges[field] = r

	case screens.FilterDates:
		start, end, ok := strings.Cut(value, ":")
		if !ok {
			return fmt.Errorf("expected 'YYYYMMDD:YYYYMMDD', got %q", value)
		}
		b.state.Filter.StartDate = strings.TrimSpace(start)
		b.state.Filter.EndDate = strings.TrimSpace(end)

	default:
		return fmt.Errorf("unknown filter kind %q", kind)
	}

	return nil
}

// updateHistogram handles updates in the histogram configuration phase.
func (b *Browser) updateHistogram(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.histogramScreen.Update(msg)
	if hs, ok := model.(*screens.HistogramScreen); ok {
		b.histogramScreen = hs
	}

	if b.histogramScreen.Cancelled() {
		return b.transitionToBrowse()
	}

	if b.histogramScreen.Done() {
		field := b.histogramScreen.Field()
		bins := b.histogramScreen.Bins()
		chartPath := b.histogramScreen.ChartPath()

		b.state.Histogram = HistogramState{Field: field, Bins: bins, Chart: chartPath}

		h, err := b.sess.Histogram(field, bins)
		if err != nil {
			return b.showError(fmt.Errorf("histogram of %s: %w", field, err))
		}

		body := histogramBody(h)
		if chartPath != "" {
			if err := chart.RenderHistogram(h, chartPath); err != nil {
				return b.showError(fmt.Errorf("rendering chart: %w", err))
			}
			abs, err := filepath.Abs(chartPath)
			if err != nil {
				abs = chartPath
			}
			body += "\n" + components.LabelStyle.Render("Chart written to ") +
				components.ValueStyle.Render(abs)
		}

		b.phase = PhaseReport
		b.reportScreen = screens.NewReportScreen("HISTOGRAM OF "+strings.ToUpper(field), body)
		return b, nil
	}

	return b, cmd
}

// updateExport handles updates in the export configuration phase.
func (b *Browser) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ExportedMsg:
		b.exporting = false
		body := components.LabelStyle.Render("Records written: ") +
			components.ValueStyle.Render(fmt.Sprintf("%d", msg.Rows)) + "\n" +
			components.LabelStyle.Render("File: ") +
			components.ValueStyle.Render(msg.Path)
		b.phase = PhaseReport
		b.reportScreen = screens.NewReportScreen("EXPORT COMPLETE", body)
		return b, nil

	case screens.ErrorMsg:
		b.exporting = false
		return b.showError(msg.Error)
	}

	if b.exporting {
		return b, nil
	}

	model, cmd := b.exportScreen.Update(msg)
	if es, ok := model.(*screens.ExportScreen); ok {
		b.exportScreen = es
	}

	if b.exportScreen.Cancelled() {
		return b.transitionToBrowse()
	}

	if b.exportScreen.Done() {
		path := b.exportScreen.Path()
		format := b.exportScreen.Format()
		b.state.Export = ExportState{Path: path, Format: format}
		b.exporting = true

		return b, func() tea.Msg {
			var (
				rows int
				err  error
			)
			if format == "xlsx" {
				rows, err = b.sess.ExportXLSX(path)
			} else {
				rows, err = b.sess.ExportCSV(path)
			}
			if err != nil {
				return screens.ErrorMsg{Error: fmt.Errorf("exporting: %w", err)}
			}
			return screens.ExportedMsg{Rows: rows, Path: path}
		}
	}

	return b, cmd
}

// updateReport handles updates while a report is displayed.
func (b *Browser) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.reportScreen.Update(msg)
	if rs, ok := model.(*screens.ReportScreen); ok {
		b.reportScreen = rs
	}

	if b.reportScreen.Done() {
		return b.transitionToBrowse()
	}

	return b, cmd
}

// transitionToSaveConfig shows the save config dialog.
func (b *Browser) transitionToSaveConfig() (tea.Model, tea.Cmd) {
	b.phase = PhaseSaveConfig
	b.configPath = "rdsrsummary.yaml"

	b.saveConfigForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("config_path").
				Title("Save configuration to").
				Description("Enter the path for the YAML config file").
				Value(&b.configPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return b, b.saveConfigForm.Init()
}

// updateSaveConfig handles updates in the save config phase.
func (b *Browser) updateSaveConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return b.transitionToBrowse()
		case "ctrl+c":
			b.cancelled = true
			return b, tea.Quit
		}
	}

	form, cmd := b.saveConfigForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.saveConfigForm = f
	}

	if b.saveConfigForm.State == huh.StateCompleted {
		if err := SaveToYAML(b.state, b.configPath); err != nil {
			return b.showError(err)
		}
		return b.transitionToBrowse()
	}

	return b, cmd
}

// viewSaveConfig renders the save config dialog.
func (b *Browser) viewSaveConfig() string {
	title := components.TitleStyle.Render("Save Configuration")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		b.saveConfigForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)

	return content
}

// showError moves to the error screen.
func (b *Browser) showError(err error) (tea.Model, tea.Cmd) {
	b.phase = PhaseError
	b.errorScreen = screens.NewErrorScreen(err)
	return b, nil
}

// updateError handles updates in the error phase.
func (b *Browser) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := b.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		b.errorScreen = es
	}

	if b.errorScreen.Done() {
		// Back to the table if a folder is loaded, otherwise to the prompt
		if len(b.sess.Records()) > 0 {
			return b.transitionToBrowse()
		}
		b.phase = PhaseFolder
		b.folderScreen = screens.NewFolderScreen(b.state.Input)
		return b, b.folderScreen.Init()
	}

	return b, cmd
}

// summaryBody renders per-field statistics as text.
func (b *Browser) summaryBody() string {
	var sb strings.Builder

	stats := b.sess.Summary()
	if len(stats) == 0 {
		return "No numeric fields in the filtered records.\n"
	}

	sb.WriteString(components.LabelStyle.Render(
		fmt.Sprintf("%-36s %6s %10s %10s %10s %10s %10s",
			"Field", "Count", "Mean", "Median", "Min", "Max", "StdDev")))
	sb.WriteString("\n")
	for _, st := range stats {
		if st.Count == 0 {
			sb.WriteString(fmt.Sprintf("%-36s %6d %10s %10s %10s %10s %10s\n",
				st.Field, 0, "-", "-", "-", "-", "-"))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-36s %6d %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			st.Field, st.Count, st.Mean, st.Median, st.Min, st.Max, st.StdDev))
	}

	return sb.String()
}

// duplicatesBody renders patients with repeated records and same-day groups.
func (b *Browser) duplicatesBody() string {
	var sb strings.Builder

	sb.WriteString(components.TitleStyle.Render("Multiple exposures"))
	sb.WriteString("\n")

	dupes := b.sess.Duplicates()
	if len(dupes) == 0 {
		sb.WriteString("No patient has more than one record.\n")
	} else {
		ids := make([]string, 0, len(dupes))
		for id := range dupes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			sb.WriteString(fmt.Sprintf("%-24s %d\n", id, dupes[id]))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(components.TitleStyle.Render("Same-day exposures (3 or more)"))
	sb.WriteString("\n")

	groups := b.sess.SameDay(3)
	if len(groups) == 0 {
		sb.WriteString("No patient has three or more records on one day.\n")
	} else {
		for _, g := range groups {
			sb.WriteString(fmt.Sprintf("%s  %-24s %d exposures\n",
				g.Date.Format("2006-01-02"), g.PatientID, len(g.Records)))
		}
	}

	return sb.String()
}

// timelineBody renders exposure counts per day as text bars.
func (b *Browser) timelineBody() string {
	points := b.sess.Timeline()
	if len(points) == 0 {
		return "No records with both patient ID and date.\n"
	}

	peak := 0
	for _, p := range points {
		if p.Count > peak {
			peak = p.Count
		}
	}

	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s  %4d  %s\n",
			p.Date.Format("2006-01-02"), p.Count, textBar(p.Count, peak)))
	}
	return sb.String()
}

// histogramBody renders histogram bins as text bars.
func histogramBody(h report.Histogram) string {
	var sb strings.Builder

	sb.WriteString(components.LabelStyle.Render(
		fmt.Sprintf("%d values", h.Total())))
	if h.Excluded > 0 {
		sb.WriteString(components.LabelStyle.Render(
			fmt.Sprintf(", %d records without a value", h.Excluded)))
	}
	sb.WriteString("\n\n")

	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}
	for i, c := range h.Counts {
		sb.WriteString(fmt.Sprintf("[%10.4g, %10.4g)  %4d  %s\n",
			h.Edges[i], h.Edges[i+1], c, textBar(c, peak)))
	}

	return sb.String()
}

// textBar renders a proportional bar scaled to the peak count.
func textBar(count, peak int) string {
	const width = 40
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// Run starts the interactive browser. If fromConfig is provided, it loads
// the folder and filters from that YAML file.
func Run(fromConfig string) error {
	var state *State

	// Load config if provided
	if fromConfig != "" {
		absPath, err := filepath.Abs(fromConfig)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}

		loaded, err := LoadFromYAML(absPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		state = loaded
	}

	// Create and run the browser
	browser := NewBrowser(state)
	p := tea.NewProgram(browser, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	// Check final state
	if b, ok := finalModel.(*Browser); ok {
		if b.cancelled {
			return nil // User cancelled, not an error
		}
		if b.err != nil {
			return b.err
		}
	}

	return nil
}
