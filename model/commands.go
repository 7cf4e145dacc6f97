package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"council/storage"
)

// SubmitCmd runs the council for sessionID in the background.
func (c *Controller) SubmitCmd(sessionID, content string) tea.Cmd {
	return func() tea.Msg {
		sess, err := c.SubmitTo(context.Background(), sessionID, content)
		return RunFinishedMsg{SessionID: sessionID, Session: sess, Err: err}
	}
}

// WaitForEvent blocks until the next run event. Re-issue it after every
// RunEventMsg to keep listening.
func (c *Controller) WaitForEvent() tea.Cmd {
	events := c.events
	return func() tea.Msg {
		return RunEventMsg{Event: <-events}
	}
}

// ExportSessionCmd exports a session to the default Downloads path.
func (c *Controller) ExportSessionCmd(id string, format storage.ExportFormat) tea.Cmd {
	return func() tea.Msg {
		path, err := c.ExportSession(id, format, "")
		return SessionExportedMsg{Path: path, Err: err}
	}
}
