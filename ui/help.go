package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("AI Council - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	row := func(k, desc string) string {
		return fmt.Sprintf("• %-13s %s", k, desc)
	}

	dashboard := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Dashboard"),
		row("Tab", "Next panel / field"),
		row("Shift+Tab", "Previous panel / field"),
		row("↑/↓", "Choose template, preset or session"),
		row("/", "Filter history"),
		row("Enter", "Start / run / open"),
	)

	chat := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		row("Enter", "Send to the council"),
		row("Alt+Enter", "New line"),
		row("PgUp/PgDn", "Scroll transcript"),
		row("Ctrl+F", "Search transcript"),
		row("Ctrl+Y", "Copy last agent reply"),
		row("Ctrl+T", "Copy transcript"),
		row("Ctrl+E", "Export as Markdown"),
		row("Esc", "Back to dashboard"),
	)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Anywhere"),
		row("Ctrl+G", "User guide"),
		row("F1", "Toggle this help"),
		row("Ctrl+C", "Quit"),
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, dashboard, "", global)),
		columnStyle.Render(chat),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("Press F1 or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(faintColor).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
