package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"council/council"
)

const (
	guideProblemTitle = "1 : 10+ Productivity"
	guideProblem      = "Traditional AI offers a 1:1 ratio. One human commands one AI, limiting output and scale."
	guideSolution     = "The council mimics an expert human team at machine speed. Agents debate, critique and refine until consensus is reached."
	guideAutonomy     = "Shift from being a \"Doer\" to a \"Commander\". Delegating to a council moves you from 1:1 interaction to managing a team of agents."
)

// agentBlurbs are the guide's one-line summaries of each role.
var agentBlurbs = map[council.AgentRole]string{
	council.RolePlanner:  "Breaks down goals into executable strategic steps.",
	council.RoleExecutor: "Performs the actual work (drafting, coding, calculating).",
	council.RoleCritic:   "Reviews for errors, logical gaps and risks.",
	council.RoleManager:  "Integrates feedback and delivers the final optimized result.",
}

// guideAgentLines renders one line per base agent, in turn order.
func guideAgentLines(width int) []string {
	var lines []string
	for _, role := range council.TurnOrder {
		def, _ := council.BaseAgent(role)
		name := AgentStyle(def).Render(agentIcon(def.Icon) + " " + strings.ToUpper(def.Name))
		blurb := DimStyle.Render(agentBlurbs[role])
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(name+"  "+blurb))
	}
	return lines
}

// renderGuidePanel is the compact dashboard version of the guide.
func renderGuidePanel(width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	title := HighlightStyle.Render("The Multi-Agent Council")
	intro := DimStyle.Render(wordWrap(guideProblem+" "+guideSolution, inner))

	parts := []string{title, intro, ""}
	parts = append(parts, guideAgentLines(inner)...)

	return PanelStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderGuideModal is the full user guide, opened from either view.
func renderGuideModal(width, height int) string {
	modalWidth := clampModalWidth(76, width)
	left := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Left)
	section := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	var lines []string
	add := func(s string) {
		for _, l := range strings.Split(s, "\n") {
			lines = append(lines, left.Render(l))
		}
	}

	add(section.Render("## " + guideProblemTitle))
	add(wordWrap("1 Human + AI = 10x productivity gain. "+guideProblem, modalWidth-2))
	add("")
	add(section.Render("## The Multi-Agent Council"))
	add(wordWrap(guideSolution, modalWidth-2))
	add("")
	lines = append(lines, guideAgentLines(modalWidth)...)
	add("")
	add(section.Render("## Boost Your Autonomy Ratio"))
	add(wordWrap(guideAutonomy, modalWidth-2))
	add("")
	add(section.Render("## Workflow"))
	for i, role := range council.TurnOrder {
		def, _ := council.BaseAgent(role)
		add(AgentStyle(def).Render(string(rune('1'+i))+". ") + council.StageLabel(role))
	}
	add("")
	add(DimStyle.Render(wordWrap("Each agent ends its reply with a confidence score. The sidebar shows the council consensus: the average of the last three scores.", modalWidth-2)))

	return RenderThreeSectionModal(
		"AI Council · User Guide",
		lines,
		FormatFooter("Esc", "Close"),
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}
