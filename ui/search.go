package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"council/council"
	"council/storage"
)

const searchLinesPerResult = 3

func (a AppView) handleMessageSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		return a, nil

	case "up", "ctrl+k":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
		}
		return a, nil

	case "down", "ctrl+j":
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
		}
		return a, nil

	case "enter":
		if len(a.messageSearchResults) == 0 {
			return a, nil
		}
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		a.jumpToMessage(a.messageSearchResults[a.selectedSearchIdx].MessageIndex)
		return a, nil
	}

	var cmd tea.Cmd
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)

	if sess, ok := a.ctrl.CurrentSession(); ok {
		a.messageSearchResults = storage.SearchMessages(sess.Messages, a.messageSearchInput.Value())
	}
	a.selectedSearchIdx = 0
	return a, cmd
}

// jumpToMessage highlights a message and scrolls it to the top third of
// the transcript.
func (a *AppView) jumpToMessage(idx int) {
	a.highlightIdx = idx
	a.updateViewportContent(false)
	if idx < 0 || idx >= len(a.messageOffsets) {
		return
	}
	offset := a.messageOffsets[idx] - a.viewport.Height/3
	if offset < 0 {
		offset = 0
	}
	a.viewport.SetYOffset(offset)
}

func renderMessageSearch(searchInput textinput.Model, results []storage.MessageMatch, selectedIdx int, roster council.Roster, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("Search Session")

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search messages in this session...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Border(2) + Padding(2) + title, input, count, footer and blanks(8)
		available := height - 12
		maxVisible := available / searchLinesPerResult
		if maxVisible < 1 {
			maxVisible = 1
		}

		start := 0
		if selectedIdx >= maxVisible {
			start = selectedIdx - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(results) {
			end = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))
		if start > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above", start)) + "\n"
		}

		for i := start; i < end; i++ {
			match := results[i]

			roleStyle := UserStyle
			if def, ok := roster[match.Role]; ok {
				roleStyle = AgentStyle(def)
			}

			matchText := fmt.Sprintf("%s\n  %s",
				roleStyle.Render(roster.DisplayName(match.Role)),
				truncateLine(match.Preview, modalWidth-10),
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> ") + matchText
			} else {
				matchText = "  " + matchText
			}
			resultsView += matchText + "\n\n"
		}

		if end < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-end))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchInput.View(),
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
