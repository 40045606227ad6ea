package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
)

// ExportScreen selects the destination file and format for an export of the
// filtered records.
type ExportScreen struct {
	form      *huh.Form
	path      string
	format    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewExportScreen creates an export configuration screen.
func NewExportScreen(path, format string) *ExportScreen {
	if path == "" {
		path = "exposures.csv"
	}
	if format != "xlsx" {
		format = "csv"
	}

	s := &ExportScreen{path: path, format: format}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Export to").
				Value(&s.path).
				Validate(func(str string) error {
					if strings.TrimSpace(str) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", "csv"),
					huh.NewOption("Excel (xlsx)", "xlsx"),
				).
				Value(&s.format),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *ExportScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ExportScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *ExportScreen) View() string {
	title := components.TitleStyle.Render("EXPORT")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Tab: Next field | Enter: Export | Esc: Back",
	)

	return content
}

// Done returns true if the form was completed
func (s *ExportScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *ExportScreen) Cancelled() bool { return s.cancelled }

// Path returns the destination file
func (s *ExportScreen) Path() string { return strings.TrimSpace(s.path) }

// Format returns the selected format, csv or xlsx
func (s *ExportScreen) Format() string { return s.format }
