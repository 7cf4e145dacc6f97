package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"council/council"
)

const historyVisible = 8

func (a AppView) dashboardColumnWidth() int {
	if a.width >= 100 {
		return a.width / 2
	}
	return a.width
}

func (a *AppView) refreshHistory() {
	a.history = a.ctrl.Sessions(a.historyFilter.Value())
	if a.historyIdx >= len(a.history) {
		a.historyIdx = len(a.history) - 1
	}
	if a.historyIdx < 0 {
		a.historyIdx = 0
	}
}

func (a *AppView) setFocus(f int) {
	a.focus = (f + focusCount) % focusCount
	for i := range a.quickStart {
		if i == a.focus {
			a.quickStart[i].Focus()
		} else {
			a.quickStart[i].Blur()
		}
	}
}

// cyclePreset steps the industry or role field through its preset list.
func (a *AppView) cyclePreset(field, delta int) {
	presets := council.Industries
	if field == focusRole {
		presets = council.Roles
	}
	idx := a.presetIdx[field] + delta
	if idx < 0 {
		idx = len(presets) - 1
	}
	if idx >= len(presets) {
		idx = 0
	}
	a.presetIdx[field] = idx
	a.quickStart[field].SetValue(presets[idx])
	a.quickStart[field].CursorEnd()
}

func (a AppView) quickStartValue() council.QuickStart {
	return council.QuickStart{
		Industry: strings.TrimSpace(a.quickStart[focusIndustry].Value()),
		Role:     strings.TrimSpace(a.quickStart[focusRole].Value()),
		Goal:     strings.TrimSpace(a.quickStart[focusGoal].Value()),
	}
}

func (a *AppView) enterChat() tea.Cmd {
	a.statusMsg = ""
	a.highlightIdx = -1
	a.textarea.Reset()
	a.updateViewportContent(true)
	return a.textarea.Focus()
}

func (a AppView) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filteringHist {
		switch msg.String() {
		case "esc":
			a.filteringHist = false
			a.historyFilter.Blur()
			a.historyFilter.SetValue("")
			a.refreshHistory()
			return a, nil
		case "enter", "tab":
			a.filteringHist = false
			a.historyFilter.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.historyFilter, cmd = a.historyFilter.Update(msg)
		a.historyIdx = 0
		a.refreshHistory()
		return a, cmd
	}

	switch msg.String() {
	case "tab":
		a.setFocus(a.focus + 1)
		return a, nil
	case "shift+tab":
		a.setFocus(a.focus - 1)
		return a, nil
	}

	switch a.focus {
	case focusIndustry, focusRole, focusGoal:
		switch msg.String() {
		case "up":
			if a.focus != focusGoal {
				a.cyclePreset(a.focus, -1)
			}
			return a, nil
		case "down":
			if a.focus != focusGoal {
				a.cyclePreset(a.focus, 1)
			}
			return a, nil
		case "enter":
			return a.startQuickStart()
		}
		var cmd tea.Cmd
		a.quickStart[a.focus], cmd = a.quickStart[a.focus].Update(msg)
		return a, cmd

	case focusTemplates:
		switch msg.String() {
		case "up", "k":
			if a.templateIdx > 0 {
				a.templateIdx--
			}
		case "down", "j":
			if a.templateIdx < len(a.templates)-1 {
				a.templateIdx++
			}
		case "enter":
			a.ctrl.StartSession(a.templates[a.templateIdx].ID)
			a.refreshHistory()
			return a, a.enterChat()
		}
		return a, nil

	case focusHistory:
		switch msg.String() {
		case "up", "k":
			if a.historyIdx > 0 {
				a.historyIdx--
			}
		case "down", "j":
			if a.historyIdx < len(a.history)-1 {
				a.historyIdx++
			}
		case "/":
			a.filteringHist = true
			return a, a.historyFilter.Focus()
		case "enter":
			if len(a.history) == 0 {
				return a, nil
			}
			if _, err := a.ctrl.OpenSession(a.history[a.historyIdx].ID); err != nil {
				a.acknowledge("Session Not Found", err.Error(), ModalTypeError)
				return a, nil
			}
			return a, a.enterChat()
		}
	}

	return a, nil
}

func (a AppView) startQuickStart() (tea.Model, tea.Cmd) {
	q := a.quickStartValue()
	sess, err := a.ctrl.PrepareQuickStart(q)
	if err != nil {
		if errors.Is(err, council.ErrInvalidQuickStart) {
			a.acknowledge("Quick Start", "Fill in industry, role and goal to convene the council.", ModalTypeWarning)
		} else {
			a.acknowledge("Quick Start Failed", err.Error(), ModalTypeError)
		}
		return a, nil
	}

	for i := range a.quickStart {
		a.quickStart[i].SetValue("")
	}
	a.presetIdx = [2]int{-1, -1}
	a.refreshHistory()

	focus := a.enterChat()
	return a, tea.Batch(focus, a.ctrl.SubmitCmd(sess.ID, q.Prompt()))
}

func (a AppView) renderDashboard() string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		HighlightStyle.Render("AI COUNCIL"),
		DimStyle.Render("  ·  "+a.providerLine()),
	)

	colWidth := a.dashboardColumnWidth()

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderQuickStartPanel(colWidth),
		a.renderTemplatesPanel(colWidth),
		a.renderHistoryPanel(colWidth),
	)

	var body string
	if a.width >= 100 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, renderGuidePanel(a.width-colWidth), right)
	} else {
		body = right
	}

	footer := FormatFooter("Tab", "Next", "Enter", "Select", "/", "Filter", "Ctrl+G", "Guide", "F1", "Help", "Ctrl+C", "Quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, StatusStyle.Render(footer))
}

func (a AppView) providerLine() string {
	if a.prov == nil {
		return "no provider"
	}
	return fmt.Sprintf("%s · %s", a.providerID, a.providerStatus)
}

func (a AppView) panelStyle(active bool) lipgloss.Style {
	if active {
		return ActivePanelStyle
	}
	return PanelStyle
}

func (a AppView) renderQuickStartPanel(width int) string {
	active := a.focus <= focusGoal
	lines := []string{SectionStyle.Render("QUICK START")}
	for _, in := range a.quickStart {
		lines = append(lines, in.View())
	}
	lines = append(lines, DimStyle.Render("Enter convenes the council on your goal"))
	return a.panelStyle(active).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderTemplatesPanel(width int) string {
	active := a.focus == focusTemplates
	lines := []string{SectionStyle.Render("TEMPLATES")}
	for i, t := range a.templates {
		line := fmt.Sprintf("%s  %s", t.Name, DimStyle.Render(t.Description))
		line = truncateLine(line, width-8)
		if active && i == a.templateIdx {
			lines = append(lines, SelectedStyle.Render("> ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return a.panelStyle(active).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderHistoryPanel(width int) string {
	active := a.focus == focusHistory
	lines := []string{SectionStyle.Render("HISTORY")}

	if a.filteringHist || a.historyFilter.Value() != "" {
		lines = append(lines, a.historyFilter.View())
	}

	if len(a.history) == 0 {
		if a.historyFilter.Value() != "" {
			lines = append(lines, DimStyle.Render("No matching sessions"))
		} else {
			lines = append(lines, DimStyle.Render("No past sessions"))
		}
		return a.panelStyle(active).Width(width - 2).Render(strings.Join(lines, "\n"))
	}

	start := 0
	if a.historyIdx >= historyVisible {
		start = a.historyIdx - historyVisible + 1
	}
	end := start + historyVisible
	if end > len(a.history) {
		end = len(a.history)
	}

	for i := start; i < end; i++ {
		sess := a.history[i]
		tmpl := council.TemplateOrDefault(sess.TemplateID)
		meta := DimStyle.Render(fmt.Sprintf("%s · %d msgs · %s", tmpl.Name, len(sess.Messages), humanize.Time(sess.UpdatedAt())))
		line := truncateLine(sess.Title, width-8) + "\n    " + meta
		if active && i == a.historyIdx {
			lines = append(lines, SelectedStyle.Render("> ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if end < len(a.history) {
		lines = append(lines, DimStyle.Render(fmt.Sprintf("  ↓ %d more", len(a.history)-end)))
	}

	return a.panelStyle(active).Width(width - 2).Render(strings.Join(lines, "\n"))
}

// truncateLine cuts s to width display cells, ignoring ANSI styling.
func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return council.Truncate(stripANSI(s), width-3)
}
