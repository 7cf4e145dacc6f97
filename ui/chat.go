package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"council/council"
	"council/model"
	"council/storage"
)

const consensusBarWidth = 20

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess, ok := a.ctrl.CurrentSession()
	if !ok {
		a.ctrl.ReturnToDashboard()
		return a, nil
	}
	running := a.ctrl.Running(sess.ID)

	switch msg.String() {
	case "esc":
		a.ctrl.ReturnToDashboard()
		a.textarea.Blur()
		a.refreshHistory()
		a.statusMsg = ""
		return a, nil

	case "enter":
		content := strings.TrimSpace(a.textarea.Value())
		if running || content == "" {
			return a, nil
		}
		a.textarea.Reset()
		a.highlightIdx = -1
		a.statusMsg = ""
		return a, a.ctrl.SubmitCmd(sess.ID, content)

	case "pgup":
		a.viewport.HalfPageUp()
		return a, nil
	case "pgdown":
		a.viewport.HalfPageDown()
		return a, nil

	case "ctrl+f":
		a.showMessageSearch = true
		a.messageSearchInput.SetValue("")
		a.messageSearchResults = nil
		a.selectedSearchIdx = 0
		return a, a.messageSearchInput.Focus()

	case "ctrl+y":
		reply, found := lastAgentReply(sess)
		if !found {
			a.statusMsg = "No agent reply to copy"
			return a, nil
		}
		return a, copyToClipboard("last reply", reply)

	case "ctrl+t":
		if len(sess.Messages) == 0 {
			a.statusMsg = "Nothing to copy yet"
			return a, nil
		}
		return a, copyToClipboard("transcript", storage.RenderTranscript(sess))

	case "ctrl+e":
		a.statusMsg = "Exporting..."
		return a, a.ctrl.ExportSessionCmd(sess.ID, storage.FormatMarkdown)
	}

	if running {
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// lastAgentReply is the newest committed agent message.
func lastAgentReply(sess storage.Session) (string, bool) {
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		m := sess.Messages[i]
		if m.Role.IsAgent() && !m.IsThinking {
			return m.Content, true
		}
	}
	return "", false
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	sess, ok := a.ctrl.CurrentSession()
	if !ok {
		a.viewport.SetContent("")
		a.messageOffsets = nil
		return
	}

	content, offsets := a.renderTranscript(sess, a.viewport.Width)
	a.messageOffsets = offsets
	a.viewport.SetContent(content)
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderTranscript returns the chat transcript and the first line of each
// message within it.
func (a *AppView) renderTranscript(sess storage.Session, width int) (string, []int) {
	if len(sess.Messages) == 0 {
		return DimStyle.Render("No messages yet. Describe your goal to convene the council."), nil
	}

	roster := sess.Roster()
	bodyWidth := width - 2
	offsets := make([]int, len(sess.Messages))

	var content strings.Builder
	line := 0
	write := func(s string) {
		content.WriteString(s)
		line += strings.Count(s, "\n")
	}

	for i, msg := range sess.Messages {
		offsets[i] = line

		highlightPrefix := ""
		if i == a.highlightIdx {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}
		timestamp := DimStyle.Render(msg.Time().Format("[15:04]"))

		if msg.Role == council.RoleUser {
			write(formatUserMessage(highlightPrefix, timestamp, UserStyle.Render("You"), wordWrap(msg.Content, bodyWidth)))
			continue
		}

		def, known := roster[msg.Role]
		if !known {
			def = council.AgentDefinition{ID: msg.Role, Name: string(msg.Role)}
		}

		if msg.IsThinking {
			write(fmt.Sprintf("%s%s %s %s\n\n",
				highlightPrefix,
				timestamp,
				a.spinner.View(),
				AgentStyle(def).Render(def.Name+" is thinking..."),
			))
			continue
		}

		header := fmt.Sprintf("%s%s %s %s",
			highlightPrefix,
			timestamp,
			AgentStyle(def).Render(agentIcon(def.Icon)+" "+def.Name),
			DimStyle.Render(def.Title),
		)
		body := a.cache.get(msg.ID, msg.Content, bodyWidth)

		write(header + "\n" + body + "\n")
		if score, ok := msg.Confidence(); ok {
			write(DimStyle.Render(fmt.Sprintf("Confidence: %d%%", score)) + "\n")
		}
		write("\n")
	}

	return content.String(), offsets
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderConsensusBar draws score as a bar of width cells coloured by its
// consensus level. Scores outside 0-100 are clamped for drawing only.
func renderConsensusBar(score int, ok bool, width int) string {
	level := council.LevelFor(score, ok)
	if !ok {
		return lipgloss.NewStyle().Foreground(faintColor).Render(strings.Repeat("░", width))
	}

	filled := council.ClampPercent(score) * width / 100
	style := lipgloss.NewStyle().Foreground(consensusColor(level))
	return style.Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(faintColor).Render(strings.Repeat("░", width-filled))
}

func (a AppView) renderSidebar(sess storage.Session, height int) string {
	state := a.ctrl.Snapshot()
	running := a.ctrl.Running(sess.ID)
	tmpl := council.TemplateOrDefault(sess.TemplateID)

	var lines []string
	lines = append(lines, HighlightStyle.Render("EXPERT COUNCIL"))
	lines = append(lines, DimStyle.Render(tmpl.Name))
	lines = append(lines, "")

	// Consensus
	score, ok := sess.Consensus()
	level := council.LevelFor(score, ok)
	lines = append(lines, SectionStyle.Render("CONSENSUS"))
	if ok {
		label := lipgloss.NewStyle().Foreground(consensusColor(level)).Bold(true).Render(fmt.Sprintf("%d%%", score))
		lines = append(lines, label+" "+DimStyle.Render(level.String()))
	} else {
		lines = append(lines, DimStyle.Render("Awaiting input"))
	}
	lines = append(lines, renderConsensusBar(score, ok, consensusBarWidth))
	lines = append(lines, "")

	// Agents
	lines = append(lines, SectionStyle.Render("AGENTS"))
	for _, def := range sess.Roster().Ordered() {
		marker := "  "
		if running && state.CurrentAgent == def.ID {
			marker = a.spinner.View() + " "
		}
		lines = append(lines, marker+AgentStyle(def).Render(agentIcon(def.Icon)+" "+def.Name))
		lines = append(lines, "    "+DimStyle.Render(def.Title))
	}
	lines = append(lines, "")

	// Workflow
	lines = append(lines, SectionStyle.Render("WORKFLOW"))
	for i, role := range council.TurnOrder {
		stage := fmt.Sprintf("%d. %s", i+1, council.StageLabel(role))
		if running && state.CurrentAgent == role {
			lines = append(lines, SelectedStyle.Render("> "+stage))
		} else {
			lines = append(lines, "  "+DimStyle.Render(stage))
		}
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth - 2).
		Height(height).
		Padding(0, 1).
		BorderRight(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(faintColor).
		Render(strings.Join(lines, "\n"))
}

func (a AppView) renderChat() string {
	sess, ok := a.ctrl.CurrentSession()
	if !ok {
		return a.renderDashboard()
	}
	running := a.ctrl.Running(sess.ID)

	title := TitleStyle.Render(sess.Title)
	separator := DimStyle.Render(strings.Repeat("─", a.viewport.Width))

	var status string
	switch {
	case a.statusMsg != "":
		status = a.statusMsg
	case running:
		status = a.spinner.View() + " Council in session · " + council.StageLabel(a.ctrl.Snapshot().CurrentAgent)
	case a.ctrl.Snapshot().Status == model.StatusCompleted:
		status = "Council finished"
	default:
		status = "Ready"
	}
	footer := FormatFooter("Enter", "Send", "Ctrl+F", "Search", "Ctrl+E", "Export", "Esc", "Back", "F1", "Help")
	statusBar := StatusStyle.Render(truncateLine(status+"  ·  "+a.providerLine(), a.viewport.Width/2)) + "  " + footer

	input := a.textarea.View()
	if running {
		input = DimStyle.Render("The council is deliberating...\n\n")
	}

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		a.viewport.View(),
		separator,
		input,
		statusBar,
	)

	if a.viewport.Width == a.width {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(sess, a.height-1), " ", main)
}
