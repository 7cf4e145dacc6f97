package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"council/council"
	"council/provider/testutil"
	"council/storage"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func newFixture(t *testing.T, templateID string) (*storage.SessionStore, string) {
	t.Helper()
	store := storage.NewSessionStore(storage.NewMemoryBackend())
	sess := store.CreateSession(templateID)
	return store, sess.ID
}

func TestSubmitRunsFullCouncil(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Scripted(testutil.CouncilReplies()...)
	rec := &recorder{}

	orch := New(store, mock, WithObserver(rec.observe))
	sess, err := orch.Submit(context.Background(), id, "Plan Q3 revenue growth")
	require.NoError(t, err)

	require.Len(t, sess.Messages, 5)
	wantRoles := []council.AgentRole{council.RoleUser, council.RolePlanner, council.RoleExecutor, council.RoleCritic, council.RoleManager}
	wantConf := []int{0, 88, 75, 62, 91}
	for i, m := range sess.Messages {
		assert.Equal(t, wantRoles[i], m.Role, "message %d", i)
		assert.False(t, m.IsThinking, "message %d still thinking", i)
		if i == 0 {
			_, has := m.Confidence()
			assert.False(t, has)
			continue
		}
		c, has := m.Confidence()
		require.True(t, has, "message %d has no confidence", i)
		assert.Equal(t, wantConf[i], c)
		assert.NotContains(t, m.Content, "[[CONFIDENCE")
	}

	assert.Equal(t, storage.StatusCompleted, sess.Status)
	assert.Equal(t, "Plan Q3 revenue growth", sess.Title)
	assert.False(t, orch.Running(id))

	score, ok := sess.Consensus()
	require.True(t, ok)
	assert.Equal(t, 76, score) // (75+62+91)/3

	assert.Equal(t, []EventKind{
		EventRunStarted,
		EventAgentStarted, EventAgentCommitted,
		EventAgentStarted, EventAgentCommitted,
		EventAgentStarted, EventAgentCommitted,
		EventAgentStarted, EventAgentCommitted,
		EventRunCompleted,
	}, rec.kinds())
}

func TestPlaceholderVisibleDuringCall(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")

	var seen []storage.Session
	mock.GenerateFunc = func(ctx context.Context, prompt string, temperature float64) (string, error) {
		sess, _ := store.GetSession(id)
		seen = append(seen, sess)
		return "ok [[CONFIDENCE: 70]]", nil
	}

	_, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)

	require.Len(t, seen, 4)
	for i, sess := range seen {
		assert.True(t, sess.Thinking(), "call %d: last message should be thinking", i)
		assert.Equal(t, storage.StatusActive, sess.Status)
		last, _ := sess.LastMessage()
		assert.Equal(t, council.TurnOrder[i], last.Role)
		assert.Len(t, sess.Messages, i+2)
	}
}

func TestPromptHistoryExcludesPlaceholder(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Scripted(testutil.CouncilReplies()...)

	_, err := New(store, mock).Submit(context.Background(), id, "Launch a bakery")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 4)

	roster := council.ResolveRoster("general")
	for i, call := range calls {
		assert.Equal(t, DefaultTemperature, call.Temperature)

		transcript := call.Prompt[strings.Index(call.Prompt, "Meeting Transcript:"):]
		assert.Contains(t, transcript, "[User]: Launch a bakery")
		// the calling agent has not spoken yet
		assert.NotContains(t, transcript, "["+roster.DisplayName(council.TurnOrder[i])+"]:")
		assert.Contains(t, call.Prompt, "Name: "+roster[council.TurnOrder[i]].Name)
	}

	// the critic sees cleaned planner and executor output
	critic := calls[2].Prompt
	assert.Contains(t, critic, "Plan: three phases.")
	assert.Contains(t, critic, "Execution: week-by-week tasks.")
	assert.NotContains(t, critic, "[[CONFIDENCE: 88]]")
}

func TestFailedTurnsDoNotAbortRun(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.FailOn("fine [[CONFIDENCE: 90]]", 1)
	rec := &recorder{}

	sess, err := New(store, mock, WithObserver(rec.observe)).Submit(context.Background(), id, "hello")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 5)

	executor := sess.Messages[2]
	assert.Equal(t, council.RoleExecutor, executor.Role)
	assert.Equal(t, council.ErrorResponseText, executor.Content)
	c, _ := executor.Confidence()
	assert.Equal(t, 0, c)

	for _, m := range sess.Messages[3:] {
		assert.Equal(t, "fine", m.Content)
	}
	assert.Equal(t, storage.StatusCompleted, sess.Status)

	var failed int
	for _, ev := range rec.events {
		if ev.Kind == EventAgentCommitted && ev.Err != nil {
			failed++
			assert.Equal(t, council.RoleExecutor, ev.Role)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestEveryTurnFailing(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = func(ctx context.Context, prompt string, temperature float64) (string, error) {
		return "", errors.New("connection refused")
	}

	sess, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 5)
	for _, m := range sess.Messages[1:] {
		assert.Equal(t, council.ErrorResponseText, m.Content)
	}
	assert.Equal(t, storage.StatusCompleted, sess.Status)

	_, ok := sess.Consensus()
	assert.False(t, ok)
}

func TestEmptyAndUnmarkedOutput(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Scripted("", "No marker here", "x [[CONFIDENCE: 150]]", "y")

	sess, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)

	planner := sess.Messages[1]
	assert.Equal(t, council.EmptyResponseText, planner.Content)
	c, _ := planner.Confidence()
	assert.Equal(t, 0, c)

	executor := sess.Messages[2]
	assert.Equal(t, "No marker here", executor.Content)
	c, _ = executor.Confidence()
	assert.Equal(t, council.DefaultConfidence, c)

	critic := sess.Messages[3]
	c, _ = critic.Confidence()
	assert.Equal(t, 150, c, "stored unclamped")
}

func TestWhitespaceOutputIsKept(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Scripted("  \n", "b", "c", "d")

	sess, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)

	planner := sess.Messages[1]
	assert.Equal(t, "  \n", planner.Content)
	c, _ := planner.Confidence()
	assert.Equal(t, council.DefaultConfidence, c)
}

func TestRunGuardRejectsConcurrentSubmit(t *testing.T) {
	store, id := newFixture(t, "general")
	started := make(chan struct{}, 16)
	release := make(chan struct{})
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Blocking("ok [[CONFIDENCE: 50]]", started, release)
	orch := New(store, mock)

	done := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), id, "first")
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never reached the model")
	}
	assert.True(t, orch.Running(id))

	_, err := orch.Submit(context.Background(), id, "second")
	assert.ErrorIs(t, err, ErrRunInProgress)

	// a different session is not blocked by the guard
	other := store.CreateSession("general")
	assert.False(t, orch.Running(other.ID))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, orch.Running(id))

	sess, _ := store.GetSession(id)
	assert.Len(t, sess.Messages, 5, "rejected submission must not append")

	_, err = orch.Submit(context.Background(), id, "second")
	assert.NoError(t, err)
}

func TestCancelledContextRecordsFailures(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.Blocking("never", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, err := New(store, mock).Submit(ctx, id, "hello")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 5)
	for _, m := range sess.Messages[1:] {
		assert.Equal(t, council.ErrorResponseText, m.Content)
	}
	assert.Equal(t, storage.StatusCompleted, sess.Status)
}

func TestSubmitRejections(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	orch := New(store, mock)

	_, err := orch.Submit(context.Background(), id, "  \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = orch.Submit(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.False(t, orch.Running("missing"))

	assert.Empty(t, mock.Calls())
	sess, _ := store.GetSession(id)
	assert.Empty(t, sess.Messages)
}

func TestTemplateRosterUsedInPrompts(t *testing.T) {
	store, id := newFixture(t, "marketing")
	mock := testutil.NewMockProvider("m")

	_, err := New(store, mock).Submit(context.Background(), id, "Design an API")
	require.NoError(t, err)

	roster := council.ResolveRoster("marketing")
	calls := mock.Calls()
	require.Len(t, calls, 4)
	assert.Contains(t, calls[0].Prompt, "Role: "+roster[council.RolePlanner].Title)
	assert.Contains(t, calls[3].Prompt, "["+roster.DisplayName(council.RoleCritic)+"]:")
}

func TestCustomStepsAndTemperature(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")

	orch := New(store, mock,
		WithSteps([]Step{{Role: council.RoleCritic}}),
		WithTemperature(0.2),
	)
	sess, err := orch.Submit(context.Background(), id, "review this")
	require.NoError(t, err)

	require.Len(t, sess.Messages, 2)
	assert.Equal(t, council.RoleCritic, sess.Messages[1].Role)
	require.Len(t, mock.Calls(), 1)
	assert.Equal(t, 0.2, mock.Calls()[0].Temperature)
	assert.Len(t, orch.Steps(), 1)
}

func TestQuickStartSubmission(t *testing.T) {
	q := council.QuickStart{Industry: "Technology", Role: "Product Manager", Goal: "Grow online sales"}
	require.NoError(t, q.Validate())

	store := storage.NewSessionStore(storage.NewMemoryBackend())
	sess := store.CreateSession(council.QuickStartTemplateID, storage.WithTitle(q.Title()))
	mock := testutil.NewMockProvider("m")

	final, err := New(store, mock).Submit(context.Background(), sess.ID, q.Prompt())
	require.NoError(t, err)
	assert.Equal(t, q.Title(), final.Title)
	assert.Equal(t, q.Prompt(), final.Messages[0].Content)
	assert.Len(t, final.Messages, 5)
}

func TestDefaultSteps(t *testing.T) {
	steps := DefaultSteps()
	require.Len(t, steps, len(council.TurnOrder))
	for i, s := range steps {
		assert.Equal(t, council.TurnOrder[i], s.Role)
	}
}

func TestMetricsRecorded(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	mock.GenerateFunc = testutil.FailOn("fine [[CONFIDENCE: 60]]", 0)

	runsBefore := promtest.ToFloat64(runsTotal)
	errorsBefore := promtest.ToFloat64(stepsTotal.WithLabelValues("planner", outcomeError))

	_, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)

	assert.Equal(t, runsBefore+1, promtest.ToFloat64(runsTotal))
	assert.Equal(t, errorsBefore+1, promtest.ToFloat64(stepsTotal.WithLabelValues("planner", outcomeError)))
	assert.Equal(t, 60.0, promtest.ToFloat64(lastConfidence.WithLabelValues("manager")))
	assert.Equal(t, 0.0, promtest.ToFloat64(runsInProgress))
}

func TestInvokerPanicIsRecorded(t *testing.T) {
	store, id := newFixture(t, "general")
	mock := testutil.NewMockProvider("m")
	calls := 0
	mock.GenerateFunc = func(ctx context.Context, prompt string, temperature float64) (string, error) {
		calls++
		if calls == 3 {
			panic("boom")
		}
		return "ok [[CONFIDENCE: 70]]", nil
	}

	sess, err := New(store, mock).Submit(context.Background(), id, "hello")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 5)
	assert.Equal(t, council.ErrorResponseText, sess.Messages[3].Content)
	assert.Equal(t, "ok", sess.Messages[4].Content)
	assert.Equal(t, storage.StatusCompleted, sess.Status)
}
