package storage

import (
	"time"

	"council/council"
)

// DefaultTitle is given to sessions until their first user message arrives.
const DefaultTitle = "New Council Session"

const titleLimit = 40

// SessionStatus is the persisted run status of a session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// Metadata carries optional per-message annotations.
type Metadata struct {
	Confidence *int     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Sources    []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Message is one entry in a session transcript. Timestamp is Unix milliseconds.
type Message struct {
	ID         string            `json:"id" yaml:"id"`
	Role       council.AgentRole `json:"role" yaml:"role"`
	Content    string            `json:"content" yaml:"content"`
	Timestamp  int64             `json:"timestamp" yaml:"timestamp"`
	IsThinking bool              `json:"isThinking,omitempty" yaml:"is_thinking,omitempty"`
	Metadata   *Metadata         `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Confidence returns the message's confidence score, if any.
func (m Message) Confidence() (int, bool) {
	if m.Metadata == nil || m.Metadata.Confidence == nil {
		return 0, false
	}
	return *m.Metadata.Confidence, true
}

// Time converts the message timestamp.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

func (m Message) clone() Message {
	if m.Metadata != nil {
		md := &Metadata{}
		if m.Metadata.Confidence != nil {
			c := *m.Metadata.Confidence
			md.Confidence = &c
		}
		if m.Metadata.Sources != nil {
			md.Sources = append([]string(nil), m.Metadata.Sources...)
		}
		m.Metadata = md
	}
	return m
}

// Session is a council meeting: a linear transcript bound to one template.
type Session struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	TemplateID   string        `json:"templateId" yaml:"template_id"`
	LastModified int64         `json:"lastModified" yaml:"last_modified"`
	Messages     []Message     `json:"messages" yaml:"messages"`
	Status       SessionStatus `json:"status" yaml:"status"`
}

// UpdatedAt converts LastModified.
func (s Session) UpdatedAt() time.Time {
	return time.UnixMilli(s.LastModified)
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	msgs := make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		msgs[i] = m.clone()
	}
	s.Messages = msgs
	return s
}

// LastMessage returns the most recent message.
func (s Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Thinking reports whether an agent turn is in flight.
func (s Session) Thinking() bool {
	last, ok := s.LastMessage()
	return ok && last.IsThinking
}

// Confidences lists the confidence of every message in order, using 0 for
// messages without one.
func (s Session) Confidences() []int {
	out := make([]int, 0, len(s.Messages))
	for _, m := range s.Messages {
		c, _ := m.Confidence()
		out = append(out, c)
	}
	return out
}

// Consensus is the council's current agreement score.
func (s Session) Consensus() (int, bool) {
	return council.ConsensusScore(s.Confidences())
}

// Entries converts committed messages into prompt history.
func (s Session) Entries() []council.Entry {
	out := make([]council.Entry, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.IsThinking {
			continue
		}
		out = append(out, council.Entry{Role: m.Role, Content: m.Content})
	}
	return out
}

// Roster resolves the agents for this session's template.
func (s Session) Roster() council.Roster {
	return council.ResolveRoster(s.TemplateID)
}

// GenerateTitle derives a session title from the first user message.
func GenerateTitle(firstMessage string) string {
	return council.Truncate(firstMessage, titleLimit)
}

// NewConfidence returns metadata holding a confidence score.
func NewConfidence(score int) *Metadata {
	return &Metadata{Confidence: &score}
}
