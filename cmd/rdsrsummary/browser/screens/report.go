package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
)

// ReportScreen displays a prepared block of text, such as the summary
// statistics or a rendered histogram, until the user dismisses it.
type ReportScreen struct {
	title  string
	body   string
	done   bool
	width  int
	height int
}

// NewReportScreen creates a static report view.
func NewReportScreen(title, body string) *ReportScreen {
	return &ReportScreen{title: title, body: body}
}

// Init implements tea.Model
func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ReportScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *ReportScreen) View() string {
	title := components.TitleStyle.Render(s.title)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.body,
		"",
		components.HintStyle.Render("Enter or Esc: Back to records"),
	)
}

// Done returns true if the user dismissed the report
func (s *ReportScreen) Done() bool { return s.done }
