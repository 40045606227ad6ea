package screens

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/rdsrsummary/cmd/rdsrsummary/browser/components"
)

// FolderScreen asks for the folder holding the RDSR files.
type FolderScreen struct {
	form      *huh.Form
	path      string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewFolderScreen creates a new folder selection screen.
func NewFolderScreen(initial string) *FolderScreen {
	s := &FolderScreen{path: initial}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("folder").
				Title("RDSR folder").
				Description("Folder containing the .dcm dose reports").
				Value(&s.path).
				Validate(validateFolder),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func validateFolder(s string) error {
	if s == "" {
		return fmt.Errorf("folder is required")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("folder not found: %s", s)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", s)
	}
	return nil
}

// Init implements tea.Model
func (s *FolderScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *FolderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
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
func (s *FolderScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("RDSR SUMMARY")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		"Enter: Load folder | Esc: Quit",
	)

	return content
}

// Done returns true if the form was completed
func (s *FolderScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *FolderScreen) Cancelled() bool { return s.cancelled }

// Path returns the selected folder
func (s *FolderScreen) Path() string { return s.path }
