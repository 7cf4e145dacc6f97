package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"council/council"
)

var (
	dimColor       = lipgloss.Color("7")
	faintColor     = lipgloss.Color("8")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(faintColor).
			Padding(0, 1)

	ActivePanelStyle = PanelStyle.
				BorderForeground(highlightColor)
)

// agentColors maps the roster's accent tags onto the terminal palette.
var agentColors = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("12"),
	"emerald": lipgloss.Color("10"),
	"amber":   lipgloss.Color("11"),
	"purple":  lipgloss.Color("13"),
}

// agentIcons maps icon tags to single glyphs.
var agentIcons = map[string]string{
	"compass":  "◈",
	"zap":      "ϟ",
	"scan-eye": "◉",
	"crown":    "♛",
}

func agentColor(tag string) lipgloss.Color {
	if c, ok := agentColors[tag]; ok {
		return c
	}
	return accentColor
}

func agentIcon(tag string) string {
	if i, ok := agentIcons[tag]; ok {
		return i
	}
	return "•"
}

// AgentStyle is the bold accent style for an agent's name.
func AgentStyle(def council.AgentDefinition) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(agentColor(def.Color)).Bold(true)
}

// consensusColor follows the strong / moderate / weak buckets.
func consensusColor(level council.ConsensusLevel) lipgloss.Color {
	switch level {
	case council.ConsensusStrong:
		return successColor
	case council.ConsensusModerate:
		return warningColor
	case council.ConsensusWeak:
		return dangerColor
	default:
		return faintColor
	}
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent blue+bold.
// Usage: FormatFooter("Tab", "Next field", "Enter", "Select", "Esc", "Back")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
