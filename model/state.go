package model

import (
	"council/council"
	"council/storage"
)

// View is the top-level screen shown by front-ends.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewChat      View = "chat"
)

// RunStatus is the process-wide run status.
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusActive    RunStatus = "active"
	StatusCompleted RunStatus = "completed"
)

// State is a read-only snapshot of the application state.
type State struct {
	View             View              `json:"view"`
	CurrentSessionID string            `json:"currentSessionId,omitempty"`
	Sessions         []storage.Session `json:"sessions"`
	Status           RunStatus         `json:"status"`
	CurrentAgent     council.AgentRole `json:"currentAgent,omitempty"`
}

// CurrentSession returns the open session from the snapshot.
func (s State) CurrentSession() (storage.Session, bool) {
	if s.CurrentSessionID == "" {
		return storage.Session{}, false
	}
	for _, sess := range s.Sessions {
		if sess.ID == s.CurrentSessionID {
			return sess, true
		}
	}
	return storage.Session{}, false
}

// Busy reports whether an agent is currently executing.
func (s State) Busy() bool {
	return s.Status == StatusActive
}
