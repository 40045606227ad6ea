package screens

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
)

// HistogramScreen selects the field, bin count and optional PNG path for a
// histogram of the filtered records.
type HistogramScreen struct {
	form      *huh.Form
	field     string
	bins      string
	chart     string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewHistogramScreen creates a histogram configuration screen over the given
// numeric fields.
func NewHistogramScreen(fields []string, defaultBins int, chartPath string) *HistogramScreen {
	s := &HistogramScreen{
		bins:  strconv.Itoa(defaultBins),
		chart: chartPath,
	}
	if len(fields) > 0 {
		s.field = fields[0]
	}

	options := make([]huh.Option[string], 0, len(fields))
	for _, f := range fields {
		options = append(options, huh.NewOption(f, f))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("field").
				Title("Field").
				Options(options...).
				Value(&s.field),

			huh.NewInput().
				Key("bins").
				Title("Bins").
				Value(&s.bins).
				Validate(validateBins),

			huh.NewInput().
				Key("chart").
				Title("PNG file (optional)").
				Description("Leave empty to show the histogram in the terminal only").
				Value(&s.chart),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func validateBins(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("bins must be a positive integer")
	}
	return nil
}

// Init implements tea.Model
func (s *HistogramScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *HistogramScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *HistogramScreen) View() string {
	title := components.TitleStyle.Render("HISTOGRAM")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Tab: Next field | Enter: Compute | Esc: Back",
	)

	return content
}

// Done returns true if the form was completed
func (s *HistogramScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *HistogramScreen) Cancelled() bool { return s.cancelled }

// Field returns the selected numeric field
func (s *HistogramScreen) Field() string { return s.field }

// Bins returns the requested bin count
func (s *HistogramScreen) Bins() int {
	n, _ := strconv.Atoi(strings.TrimSpace(s.bins))
	return n
}

// ChartPath returns the PNG path, empty for terminal-only display
func (s *HistogramScreen) ChartPath() string { return strings.TrimSpace(s.chart) }
