package model

import (
	"council/storage"
	"council/workflow"
)

// RunEventMsg carries one orchestrator event into the Bubble Tea loop.
type RunEventMsg struct {
	Event workflow.Event
}

// RunFinishedMsg is sent when a submission's council run returns.
type RunFinishedMsg struct {
	SessionID string
	Session   storage.Session
	Err       error
}

type SessionExportedMsg struct {
	Path string
	Err  error
}
