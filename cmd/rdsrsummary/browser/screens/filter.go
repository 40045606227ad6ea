package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
)

// Filter kinds selectable on the filter screen.
const (
	FilterEquals   = "equals"
	FilterContains = "contains"
	FilterRange    = "range"
	FilterDates    = "dates"
)

// FilterScreen adds one filter criterion to the active filter set.
type FilterScreen struct {
	form      *huh.Form
	kind      string
	field     string
	value     string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewFilterScreen creates a filter entry screen. The fields slice feeds the
// field suggestions, usually the known field names of the loaded records.
func NewFilterScreen(fields []string) *FilterScreen {
	s := &FilterScreen{kind: FilterEquals}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Filter kind").
				Options(
					huh.NewOption("Exact match", FilterEquals),
					huh.NewOption("Contains (case-insensitive)", FilterContains),
					huh.NewOption("Numeric range", FilterRange),
					huh.NewOption("Date range", FilterDates),
				).
				Value(&s.kind),

			huh.NewInput().
				Key("field").
				Title("Field").
				Description("Ignored for date ranges").
				Suggestions(fields).
				Value(&s.field),

			huh.NewInput().
				Key("value").
				Title("Value").
				Description("Range: 'MIN:MAX', dates: 'YYYYMMDD:YYYYMMDD' (either side may be empty)").
				Value(&s.value).
				Validate(func(str string) error {
					if strings.TrimSpace(str) == "" {
						return fmt.Errorf("value is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *FilterScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *FilterScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *FilterScreen) View() string {
	title := components.TitleStyle.Render("ADD FILTER")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Tab: Next field | Enter: Apply | Esc: Back",
	)

	return content
}

// Done returns true if the form was completed
func (s *FilterScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *FilterScreen) Cancelled() bool { return s.cancelled }

// Kind returns the selected filter kind
func (s *FilterScreen) Kind() string { return s.kind }

// Field returns the entered field name
func (s *FilterScreen) Field() string { return strings.TrimSpace(s.field) }

// Value returns the entered value
func (s *FilterScreen) Value() string { return s.value }
