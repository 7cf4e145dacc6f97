package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"council/config"
	"council/council"
	"council/storage"
	"council/workflow"
)

// ErrNoSession is returned when an operation needs an open session.
var ErrNoSession = errors.New("no session is open")

const eventBuffer = 64

// Controller owns the application state. Front-ends read it through
// Snapshot and change it only through the named operations below.
type Controller struct {
	Config *config.Config

	store  *storage.SessionStore
	orch   *workflow.Orchestrator
	events chan workflow.Event

	mu               sync.RWMutex
	view             View
	currentSessionID string
	runs             map[string]runState
}

// runState is the run status and executing agent of one session.
type runState struct {
	status RunStatus
	agent  council.AgentRole
}

// NewController wires a controller around a hydrated store and a model
// invoker. cfg may be nil; its temperature is used when set.
func NewController(cfg *config.Config, store *storage.SessionStore, invoker workflow.Invoker, opts ...workflow.Option) *Controller {
	c := &Controller{
		Config: cfg,
		store:  store,
		events: make(chan workflow.Event, eventBuffer),
		view:   ViewDashboard,
		runs:   make(map[string]runState),
	}

	all := []workflow.Option{workflow.WithObserver(c.observe)}
	if cfg != nil {
		all = append(all, workflow.WithTemperature(cfg.Temperature))
	}
	all = append(all, opts...)
	c.orch = workflow.New(store, invoker, all...)
	return c
}

// Store exposes the session store for read-only helpers such as export.
func (c *Controller) Store() *storage.SessionStore {
	return c.store
}

// Events delivers run events for front-ends that redraw on progress.
// Events are dropped when nobody drains the channel.
func (c *Controller) Events() <-chan workflow.Event {
	return c.events
}

func (c *Controller) observe(ev workflow.Event) {
	c.mu.Lock()
	rs := c.runs[ev.SessionID]
	switch ev.Kind {
	case workflow.EventRunStarted:
		rs.status = StatusActive
	case workflow.EventAgentStarted:
		rs.agent = ev.Role
	case workflow.EventRunCompleted:
		rs = runState{status: StatusCompleted}
	}
	c.runs[ev.SessionID] = rs
	c.mu.Unlock()

	select {
	case c.events <- ev:
	default:
	}
}

// Snapshot returns a copy of the current state. Status and CurrentAgent
// describe the open session only.
func (c *Controller) Snapshot() State {
	sessions := c.store.ListSessions()

	c.mu.RLock()
	defer c.mu.RUnlock()
	st := State{
		View:             c.view,
		CurrentSessionID: c.currentSessionID,
		Sessions:         sessions,
		Status:           StatusIdle,
	}
	if rs, ok := c.runs[c.currentSessionID]; ok && c.currentSessionID != "" {
		st.Status = rs.status
		st.CurrentAgent = rs.agent
	}
	return st
}

// CurrentSession returns the open session.
func (c *Controller) CurrentSession() (storage.Session, bool) {
	c.mu.RLock()
	id := c.currentSessionID
	c.mu.RUnlock()
	if id == "" {
		return storage.Session{}, false
	}
	return c.store.GetSession(id)
}

// Consensus is the agreement score of the open session.
func (c *Controller) Consensus() (int, bool) {
	sess, ok := c.CurrentSession()
	if !ok {
		return 0, false
	}
	return sess.Consensus()
}

// Running reports whether sessionID has a run executing.
func (c *Controller) Running(sessionID string) bool {
	return c.orch.Running(sessionID)
}

// Sessions lists sessions, fuzzy-filtered by query when non-empty.
func (c *Controller) Sessions(query string) []storage.Session {
	return storage.FilterSessions(c.store.ListSessions(), query)
}

// open switches to id. A run still in progress there keeps its state;
// otherwise status is recorded.
func (c *Controller) open(id string, status RunStatus) {
	c.mu.Lock()
	c.currentSessionID = id
	c.view = ViewChat
	if c.runs[id].status != StatusActive {
		c.runs[id] = runState{status: status}
	}
	c.mu.Unlock()
}

// StartSession creates an empty session for templateID and opens it.
// Nothing runs until the first submission.
func (c *Controller) StartSession(templateID string) storage.Session {
	sess := c.store.CreateSession(templateID)
	c.open(sess.ID, StatusIdle)
	log.Info().Str("session", sess.ID).Str("template", sess.TemplateID).Msg("session started")
	return sess
}

// PrepareQuickStart validates q, creates its seeded session and opens it
// without running the council.
func (c *Controller) PrepareQuickStart(q council.QuickStart) (storage.Session, error) {
	if err := q.Validate(); err != nil {
		return storage.Session{}, err
	}
	sess := c.store.CreateSession(council.QuickStartTemplateID, storage.WithTitle(q.Title()))
	c.open(sess.ID, StatusIdle)
	log.Info().Str("session", sess.ID).Str("industry", q.Industry).Str("role", q.Role).Msg("quick start")
	return sess, nil
}

// QuickStart creates a seeded session, opens it and runs the council on
// the seed prompt.
func (c *Controller) QuickStart(ctx context.Context, q council.QuickStart) (storage.Session, error) {
	sess, err := c.PrepareQuickStart(q)
	if err != nil {
		return storage.Session{}, err
	}
	return c.SubmitTo(ctx, sess.ID, q.Prompt())
}

// OpenSession switches to chat on an existing session and restores its
// run status, including the executing agent of a run still in progress.
func (c *Controller) OpenSession(id string) (storage.Session, error) {
	sess, ok := c.store.GetSession(id)
	if !ok {
		return storage.Session{}, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, id)
	}
	status := StatusCompleted
	if sess.Status == storage.StatusActive {
		status = StatusActive
	}
	c.open(id, status)
	return sess, nil
}

// ReturnToDashboard leaves the chat view. The open session is kept.
func (c *Controller) ReturnToDashboard() {
	c.mu.Lock()
	c.view = ViewDashboard
	c.mu.Unlock()
}

// Submit sends content to the open session and runs the council.
func (c *Controller) Submit(ctx context.Context, content string) (storage.Session, error) {
	c.mu.RLock()
	id := c.currentSessionID
	c.mu.RUnlock()
	if id == "" {
		return storage.Session{}, ErrNoSession
	}
	return c.SubmitTo(ctx, id, content)
}

// SubmitTo sends content to a specific session and runs the council.
func (c *Controller) SubmitTo(ctx context.Context, sessionID, content string) (storage.Session, error) {
	return c.orch.Submit(ctx, sessionID, content)
}

// ExportSession writes a session to path, or to a generated path in the
// Downloads directory when path is empty. The written path is returned.
func (c *Controller) ExportSession(id string, format storage.ExportFormat, path string) (string, error) {
	sess, ok := c.store.GetSession(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrSessionNotFound, id)
	}
	if path == "" {
		path = storage.GenerateExportPath(sess.Title, format)
	}
	if err := storage.ExportToFile(sess, path, format); err != nil {
		return "", err
	}
	return path, nil
}
