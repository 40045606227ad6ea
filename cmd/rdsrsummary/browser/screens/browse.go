package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
	"github.com/mrsinham/rdsrsummary/internal/rdsr"
)

// BrowseAction is a command the user issued from the record table.
type BrowseAction int

const (
	ActionNone BrowseAction = iota
	ActionFilter
	ActionClearFilter
	ActionSummary
	ActionDuplicates
	ActionTimeline
	ActionHistogram
	ActionExport
	ActionReload
	ActionFolder
	ActionSaveConfig
)

// BrowseScreen is the central hub: a table of the filtered records with
// single-key commands to reach the other screens.
type BrowseScreen struct {
	table      table.Model
	shown      int
	total      int
	skipped    int
	filterDesc string
	action     BrowseAction
	cancelled  bool
	width      int
	height     int
}

// NewBrowseScreen creates the record table screen.
func NewBrowseScreen() *BrowseScreen {
	columns := []table.Column{
		{Title: "Patient ID", Width: 14},
		{Title: "Date", Width: 10},
		{Title: "Station", Width: 14},
		{Title: "Protocol", Width: 26},
		{Title: "CTDIvol", Width: 10},
		{Title: "DLP", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("63")).
		Bold(false)
	t.SetStyles(styles)

	return &BrowseScreen{table: t}
}

// SetRecords replaces the table contents with the given filtered records.
func (s *BrowseScreen) SetRecords(records []rdsr.ExposureRecord, total, skipped int, filterDesc string) {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		id := "-"
		if rec.HasPatientID {
			id = rec.PatientID
		}
		date := "-"
		if rec.ContentDate != nil {
			date = rec.ContentDate.Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			id,
			date,
			rawOrDash(rec, "StationName"),
			rawOrDash(rec, "Acquisition Protocol"),
			rawOrDash(rec, "Mean CTDIvol"),
			rawOrDash(rec, "DLP"),
		})
	}

	s.table.SetRows(rows)
	s.table.SetCursor(0)
	s.shown = len(records)
	s.total = total
	s.skipped = skipped
	s.filterDesc = filterDesc
}

func rawOrDash(rec rdsr.ExposureRecord, field string) string {
	if v, ok := rec.RawValue(field); ok {
		return v
	}
	return "-"
}

// Init implements tea.Model
func (s *BrowseScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *BrowseScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			s.cancelled = true
			return s, tea.Quit
		case "f":
			s.action = ActionFilter
			return s, nil
		case "c":
			s.action = ActionClearFilter
			return s, nil
		case "s":
			s.action = ActionSummary
			return s, nil
		case "d":
			s.action = ActionDuplicates
			return s, nil
		case "t":
			s.action = ActionTimeline
			return s, nil
		case "h":
			s.action = ActionHistogram
			return s, nil
		case "e":
			s.action = ActionExport
			return s, nil
		case "r":
			s.action = ActionReload
			return s, nil
		case "o":
			s.action = ActionFolder
			return s, nil
		case "w":
			s.action = ActionSaveConfig
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		if msg.Height > 12 {
			s.table.SetHeight(msg.Height - 9)
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

// View implements tea.Model
func (s *BrowseScreen) View() string {
	if s.cancelled {
		return ""
	}

	title := components.TitleStyle.Render("EXPOSURE RECORDS")

	status := components.LabelStyle.Render(
		fmt.Sprintf("%d of %d records", s.shown, s.total))
	if s.skipped > 0 {
		status += components.LabelStyle.Render(
			fmt.Sprintf(" | %d files skipped", s.skipped))
	}
	status += components.LabelStyle.Render(" | filters: ") +
		components.ValueStyle.Render(s.filterDesc)

	help := components.HintStyle.Render(
		"f: Filter | c: Clear filters | s: Summary | d: Duplicates | t: Timeline | h: Histogram | e: Export | r: Reload | o: Open folder | w: Save config | q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		"",
		s.table.View(),
		"",
		help,
	)
}

// Cancelled returns true if the user quit from the table
func (s *BrowseScreen) Cancelled() bool { return s.cancelled }

// TakeAction returns the pending action and clears it.
func (s *BrowseScreen) TakeAction() BrowseAction {
	a := s.action
	s.action = ActionNone
	return a
}
