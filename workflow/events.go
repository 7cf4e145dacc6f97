package workflow

import (
	"council/council"
	"council/storage"
)

// EventKind identifies a run lifecycle event.
type EventKind int

const (
	EventRunStarted EventKind = iota
	EventAgentStarted
	EventAgentCommitted
	EventRunCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "run_started"
	case EventAgentStarted:
		return "agent_started"
	case EventAgentCommitted:
		return "agent_committed"
	case EventRunCompleted:
		return "run_completed"
	default:
		return "unknown"
	}
}

// Event reports run progress. Role is empty for run-level events. Message
// is the placeholder for EventAgentStarted and the committed message for
// EventAgentCommitted. Err carries the swallowed invoker failure, if any.
type Event struct {
	Kind      EventKind
	SessionID string
	Role      council.AgentRole
	Message   storage.Message
	Err       error
}

// Observer receives events synchronously on the run's goroutine.
type Observer func(Event)
