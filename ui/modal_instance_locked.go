package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InstanceLockedModal is shown when another council TUI holds the data
// directory. The user can exit or force delete the lock file.
type InstanceLockedModal struct {
	runningPID  int
	dataDir     string
	width       int
	height      int
	forceDelete bool
}

func NewInstanceLockedModal(runningPID int, dataDir string) InstanceLockedModal {
	return InstanceLockedModal{
		runningPID: runningPID,
		dataDir:    dataDir,
	}
}

func (m InstanceLockedModal) Init() tea.Cmd {
	return nil
}

func (m InstanceLockedModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		case "d", "D":
			m.forceDelete = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ForceDelete returns true if the user chose to force delete the lock file
func (m InstanceLockedModal) ForceDelete() bool {
	return m.forceDelete
}

func (m InstanceLockedModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := clampModalWidth(60, m.width)

	message := fmt.Sprintf(
		"Another council instance is already running (PID %d)\n"+
			"against %s.\n\n"+
			"Sessions are written wholesale after every change, so two\n"+
			"instances on one data directory would overwrite each other.\n\n"+
			"Use --data-dir to point this instance elsewhere, or press D\n"+
			"to force delete the lock file if the other process is gone.",
		m.runningPID, m.dataDir)

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, messageStyle.Render(line))
	}

	return RenderThreeSectionModal(
		"Council Already Running",
		lines,
		FormatFooter("Enter", "Exit", "D", "Force delete lock file"),
		ModalTypeError,
		modalWidth,
		m.width,
		m.height,
	)
}
