package ui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"council/model"
	"council/provider"
	"council/workflow"
)

type clipboardMsg struct {
	what string
	err  error
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if sess, ok := a.ctrl.CurrentSession(); ok && sess.Thinking() {
			a.updateViewportContent(false)
		}
		return a, cmd

	case model.RunEventMsg:
		a.handleRunEvent(msg.Event)
		return a, a.ctrl.WaitForEvent()

	case model.RunFinishedMsg:
		a.refreshHistory()
		a.updateViewportContent(true)
		switch {
		case msg.Err == nil:
			a.statusMsg = "Council finished"
		case errors.Is(msg.Err, workflow.ErrRunInProgress):
			a.acknowledge("Council Busy", "The council is still working on this session. Wait for the Manager to finish before sending another message.", ModalTypeWarning)
		case errors.Is(msg.Err, workflow.ErrEmptyMessage):
		default:
			a.acknowledge("Run Failed", msg.Err.Error(), ModalTypeError)
		}
		return a, nil

	case model.SessionExportedMsg:
		if msg.Err != nil {
			a.acknowledge("Export Failed", msg.Err.Error(), ModalTypeError)
			return a, nil
		}
		a.statusMsg = "Exported to " + msg.Path
		return a, nil

	case provider.PingProviderMsg:
		a.providerOK = msg.Valid
		if msg.Valid {
			a.providerStatus = msg.Model
			return a, nil
		}
		a.providerStatus = "unreachable"
		a.acknowledge(
			"Provider Unreachable",
			fmt.Sprintf("Could not reach %s (%s): %v\n\nAgent turns will fail until it is available.", msg.ProviderID, msg.Model, msg.Err),
			ModalTypeWarning,
		)
		return a, nil

	case clipboardMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("clipboard write failed")
			a.statusMsg = "Clipboard unavailable"
			return a, nil
		}
		a.statusMsg = "Copied " + msg.what
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *AppView) handleRunEvent(ev workflow.Event) {
	switch ev.Kind {
	case workflow.EventAgentCommitted:
		if ev.Err != nil {
			a.statusMsg = fmt.Sprintf("%s failed: %v", a.currentRoster().DisplayName(ev.Role), ev.Err)
		}
	case workflow.EventRunCompleted:
		a.refreshHistory()
	}

	if sess, ok := a.ctrl.CurrentSession(); ok && sess.ID == ev.SessionID {
		a.updateViewportContent(true)
	}
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always-global shortcuts
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	if a.showAcknowledgeModal {
		switch msg.String() {
		case "enter", "esc":
			a.showAcknowledgeModal = false
		}
		return a, nil
	}

	switch msg.String() {
	case "f1":
		a.showHelp = !a.showHelp
		return a, nil
	case "ctrl+g":
		wasOpen := a.showGuide
		a.closeAllModals()
		a.showGuide = !wasOpen
		return a, nil
	}

	if a.showHelp || a.showGuide {
		if msg.String() == "esc" {
			a.showHelp = false
			a.showGuide = false
		}
		return a, nil
	}

	if a.showMessageSearch {
		return a.handleMessageSearchKey(msg)
	}

	if a.ctrl.Snapshot().View == model.ViewChat {
		return a.handleChatKey(msg)
	}
	return a.handleDashboardKey(msg)
}

// layout sizes the chat components for the current window.
func (a *AppView) layout() {
	mainWidth := a.width - sidebarWidth - 1
	if mainWidth < 20 {
		mainWidth = a.width
	}

	// title(1) + separator(1) + textarea(3) + status bar(1)
	vpHeight := a.height - 6
	if vpHeight < 1 {
		vpHeight = 1
	}
	a.viewport.Width = mainWidth
	a.viewport.Height = vpHeight
	a.textarea.SetWidth(mainWidth)

	for i := range a.quickStart {
		a.quickStart[i].Width = a.dashboardColumnWidth() - 16
	}
}
