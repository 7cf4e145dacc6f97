// Package workflow drives a council run: the fixed sequence of agent turns
// that follows every user message.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"council/council"
	"council/storage"
)

var (
	// ErrRunInProgress is returned when a session already has a run executing.
	ErrRunInProgress = errors.New("a council run is already in progress for this session")

	// ErrEmptyMessage is returned for blank submissions.
	ErrEmptyMessage = errors.New("message is empty")
)

// DefaultTemperature is the sampling temperature used for every agent turn.
const DefaultTemperature = 0.7

// Invoker turns a compiled prompt into raw model output.
type Invoker interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Store is the session persistence the orchestrator writes through.
type Store interface {
	GetSession(sessionID string) (storage.Session, bool)
	AppendMessage(sessionID string, msg storage.Message) (storage.Message, error)
	ReplaceLastMessage(sessionID, content string, confidence int) (storage.Message, error)
	SetStatus(sessionID string, status storage.SessionStatus) error
}

// Orchestrator runs council workflows against a store and a model invoker.
type Orchestrator struct {
	store       Store
	invoker     Invoker
	steps       []Step
	temperature float64
	observer    Observer

	mu      sync.Mutex
	running map[string]struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSteps replaces the default turn sequence.
func WithSteps(steps []Step) Option {
	return func(o *Orchestrator) {
		o.steps = append([]Step(nil), steps...)
	}
}

// WithTemperature sets the sampling temperature. Non-positive values keep
// the default.
func WithTemperature(t float64) Option {
	return func(o *Orchestrator) {
		if t > 0 {
			o.temperature = t
		}
	}
}

// WithObserver registers a callback for run events.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// New creates an orchestrator.
func New(store Store, invoker Invoker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		invoker:     invoker,
		steps:       DefaultSteps(),
		temperature: DefaultTemperature,
		running:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Steps returns the configured turn sequence.
func (o *Orchestrator) Steps() []Step {
	return append([]Step(nil), o.steps...)
}

// Running reports whether sessionID has a run executing.
func (o *Orchestrator) Running(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.running[sessionID]
	return ok
}

func (o *Orchestrator) acquire(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.running[sessionID]; busy {
		return false
	}
	o.running[sessionID] = struct{}{}
	return true
}

func (o *Orchestrator) release(sessionID string) {
	o.mu.Lock()
	delete(o.running, sessionID)
	o.mu.Unlock()
}

func (o *Orchestrator) emit(ev Event) {
	if o.observer != nil {
		o.observer(ev)
	}
}

// Submit appends a user message to the session and runs every step. Model
// failures never abort the run; the returned error only covers rejected
// submissions and store failures. The final session is returned.
func (o *Orchestrator) Submit(ctx context.Context, sessionID, content string) (storage.Session, error) {
	if strings.TrimSpace(content) == "" {
		return storage.Session{}, ErrEmptyMessage
	}
	if !o.acquire(sessionID) {
		return storage.Session{}, ErrRunInProgress
	}
	defer o.release(sessionID)

	if _, err := o.store.AppendMessage(sessionID, storage.Message{
		Role:    council.RoleUser,
		Content: content,
	}); err != nil {
		return storage.Session{}, fmt.Errorf("append user message: %w", err)
	}

	if err := o.run(ctx, sessionID); err != nil {
		return storage.Session{}, err
	}

	sess, ok := o.store.GetSession(sessionID)
	if !ok {
		return storage.Session{}, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (o *Orchestrator) run(ctx context.Context, sessionID string) (err error) {
	sess, ok := o.store.GetSession(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}

	start := time.Now()
	logger := log.With().Str("session", sessionID).Str("template", sess.TemplateID).Logger()
	logger.Info().Int("steps", len(o.steps)).Msg("council run start")

	runsTotal.Inc()
	runsInProgress.Inc()
	if err := o.store.SetStatus(sessionID, storage.StatusActive); err != nil {
		runsInProgress.Dec()
		return fmt.Errorf("mark session active: %w", err)
	}
	o.emit(Event{Kind: EventRunStarted, SessionID: sessionID})

	defer func() {
		runsInProgress.Dec()
		if serr := o.store.SetStatus(sessionID, storage.StatusCompleted); serr != nil && err == nil {
			err = fmt.Errorf("mark session completed: %w", serr)
		}
		o.emit(Event{Kind: EventRunCompleted, SessionID: sessionID, Err: err})
		logger.Info().Int64("elapsed_ms", time.Since(start).Milliseconds()).Msg("council run done")
	}()

	roster := sess.Roster()
	history := sess.Entries()

	for _, step := range o.steps {
		entry, err := o.runStep(ctx, sessionID, step, roster, history)
		if err != nil {
			return err
		}
		history = append(history, entry)
	}
	return nil
}

func (o *Orchestrator) runStep(ctx context.Context, sessionID string, step Step, roster council.Roster, history []council.Entry) (council.Entry, error) {
	agent, ok := roster[step.Role]
	if !ok {
		agent, _ = council.BaseAgent(step.Role)
	}
	role := string(step.Role)

	placeholder, err := o.store.AppendMessage(sessionID, storage.Message{
		Role:       step.Role,
		IsThinking: true,
	})
	if err != nil {
		return council.Entry{}, fmt.Errorf("append %s placeholder: %w", role, err)
	}
	o.emit(Event{Kind: EventAgentStarted, SessionID: sessionID, Role: step.Role, Message: placeholder})

	logger := log.With().Str("session", sessionID).Str("agent", role).Logger()
	logger.Debug().Msg("agent run start")

	// history never includes the placeholder just appended
	prompt := council.CompilePrompt(agent, history, roster)

	start := time.Now()
	raw, genErr := o.generate(ctx, prompt)
	elapsed := time.Since(start)
	stepDuration.WithLabelValues(role).Observe(elapsed.Seconds())

	var content string
	var confidence int
	outcome := outcomeOK
	switch {
	case genErr != nil:
		content, confidence = council.FailedResponse()
		outcome = outcomeError
		logger.Warn().Err(genErr).Int64("elapsed_ms", elapsed.Milliseconds()).Msg("agent call failed")
	default:
		content, confidence = council.ParseResponse(raw)
		if raw == "" {
			outcome = outcomeEmpty
		} else if content == raw {
			outcome = outcomeNoMarker
		}
		logger.Debug().Int("confidence", confidence).Int64("elapsed_ms", elapsed.Milliseconds()).Msg("agent run done")
	}
	stepsTotal.WithLabelValues(role, outcome).Inc()
	lastConfidence.WithLabelValues(role).Set(float64(confidence))

	committed, err := o.store.ReplaceLastMessage(sessionID, content, confidence)
	if err != nil {
		return council.Entry{}, fmt.Errorf("commit %s response: %w", role, err)
	}
	o.emit(Event{Kind: EventAgentCommitted, SessionID: sessionID, Role: step.Role, Message: committed, Err: genErr})

	return council.Entry{Role: step.Role, Content: content}, nil
}

// generate calls the invoker, turning a panic into an error so the run
// still reaches completion.
func (o *Orchestrator) generate(ctx context.Context, prompt string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invoker panic: %v", r)
		}
	}()
	return o.invoker.Generate(ctx, prompt, o.temperature)
}
