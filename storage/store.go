package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"council/council"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoMessages      = errors.New("session has no messages")
)

// SessionStore owns the process-wide session list. Every mutation bumps the
// session's LastModified and writes the whole list to the backend.
type SessionStore struct {
	mu       sync.Mutex
	backend  Backend
	sessions []*Session // most recent first
	lastTick int64
	now      func() time.Time
}

// CreateOption customizes a new session.
type CreateOption func(*Session)

// WithTitle sets the initial title. A non-default title is never replaced
// by the first user message.
func WithTitle(title string) CreateOption {
	return func(s *Session) {
		if title != "" {
			s.Title = title
		}
	}
}

// WithStatus sets the initial status.
func WithStatus(status SessionStatus) CreateOption {
	return func(s *Session) {
		s.Status = status
	}
}

// NewSessionStore hydrates the store from the backend. A missing or
// unreadable snapshot yields an empty list.
func NewSessionStore(backend Backend) *SessionStore {
	s := &SessionStore{
		backend: backend,
		now:     time.Now,
	}
	s.sessions = s.hydrate()
	for _, sess := range s.sessions {
		if sess.LastModified > s.lastTick {
			s.lastTick = sess.LastModified
		}
	}
	return s
}

func (s *SessionStore) hydrate() []*Session {
	data, err := s.backend.Get(SnapshotKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to read session snapshot, starting empty")
		return nil
	}

	var list []Session
	if err := json.Unmarshal(data, &list); err != nil {
		log.Warn().Err(err).Msg("failed to parse session snapshot, starting empty")
		return nil
	}

	out := make([]*Session, 0, len(list))
	for i := range list {
		sess := list[i]
		if sess.Messages == nil {
			sess.Messages = []Message{}
		}
		// a run cannot survive a restart
		if sess.Status == StatusActive {
			sess.Status = StatusCompleted
		}
		if n := len(sess.Messages); n > 0 && sess.Messages[n-1].IsThinking {
			text, score := council.FailedResponse()
			sess.Messages[n-1].Content = text
			sess.Messages[n-1].IsThinking = false
			sess.Messages[n-1].Metadata = NewConfidence(score)
		}
		out = append(out, &sess)
	}
	log.Debug().Int("sessions", len(out)).Msg("hydrated session store")
	return out
}

// tick returns a millisecond timestamp strictly greater than any previous
// one handed out and than floor.
func (s *SessionStore) tick(floor int64) int64 {
	t := s.now().UnixMilli()
	if t <= s.lastTick {
		t = s.lastTick + 1
	}
	if t <= floor {
		t = floor + 1
	}
	s.lastTick = t
	return t
}

// flush writes the full session list. Failures are logged, never returned:
// the in-memory list stays authoritative.
func (s *SessionStore) flush() {
	list := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		list[i] = *sess
	}
	data, err := json.Marshal(list)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode session snapshot")
		return
	}
	if err := s.backend.Put(SnapshotKey, data); err != nil {
		log.Error().Err(err).Msg("failed to persist session snapshot")
	}
}

func (s *SessionStore) find(id string) *Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// CreateSession inserts a new empty session at the front of the list.
func (s *SessionStore) CreateSession(templateID string, opts ...CreateOption) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if templateID == "" {
		templateID = council.DefaultTemplateID
	}
	sess := &Session{
		ID:         uuid.New().String(),
		Title:      DefaultTitle,
		TemplateID: templateID,
		Messages:   []Message{},
		Status:     StatusCompleted,
	}
	for _, opt := range opts {
		opt(sess)
	}
	sess.LastModified = s.tick(0)

	s.sessions = append([]*Session{sess}, s.sessions...)
	s.flush()

	log.Debug().Str("session", sess.ID).Str("template", templateID).Msg("session created")
	return sess.Clone()
}

// AppendMessage adds msg to the end of the session. Missing ids and
// timestamps are filled in. The first user message in an empty session
// with the default title becomes the title.
func (s *SessionStore) AppendMessage(sessionID string, msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return Message{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = s.now().UnixMilli()
	}

	if len(sess.Messages) == 0 && msg.Role == council.RoleUser && sess.Title == DefaultTitle {
		sess.Title = GenerateTitle(msg.Content)
	}

	sess.Messages = append(sess.Messages, msg.clone())
	sess.LastModified = s.tick(sess.LastModified)
	s.flush()

	return msg.clone(), nil
}

// ReplaceLastMessage commits content and confidence into the most recent
// message and clears its thinking flag.
func (s *SessionStore) ReplaceLastMessage(sessionID, content string, confidence int) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return Message{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if len(sess.Messages) == 0 {
		return Message{}, fmt.Errorf("%w: %s", ErrNoMessages, sessionID)
	}

	last := &sess.Messages[len(sess.Messages)-1]
	last.Content = content
	last.IsThinking = false
	last.Metadata = NewConfidence(confidence)

	sess.LastModified = s.tick(sess.LastModified)
	s.flush()

	return last.clone(), nil
}

// SetStatus records the run status of a session.
func (s *SessionStore) SetStatus(sessionID string, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.Status = status
	sess.LastModified = s.tick(sess.LastModified)
	s.flush()
	return nil
}

// ListSessions returns copies of all sessions, most recently created first.
func (s *SessionStore) ListSessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// GetSession returns a copy of the session.
func (s *SessionStore) GetSession(sessionID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return Session{}, false
	}
	return sess.Clone(), true
}

// Close releases the backend.
func (s *SessionStore) Close() error {
	return s.backend.Close()
}
