package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"council/council"
)

// frozenStore returns a store whose clock never advances, to exercise the
// strict lastModified bump.
func frozenStore(t *testing.T, backend Backend) *SessionStore {
	t.Helper()
	s := NewSessionStore(backend)
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }
	return s
}

func TestCreateSessionInsertsAtFront(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())

	first := s.CreateSession("general")
	second := s.CreateSession("marketing")

	list := s.ListSessions()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, DefaultTitle, first.Title)
	assert.Equal(t, "marketing", second.TemplateID)
	assert.Equal(t, StatusCompleted, first.Status)
	assert.NotNil(t, first.Messages)
}

func TestCreateSessionDefaultsTemplate(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("")
	assert.Equal(t, council.DefaultTemplateID, sess.TemplateID)
}

func TestAppendMessageIncrementsAndBumpsLastModified(t *testing.T) {
	s := frozenStore(t, NewMemoryBackend())
	sess := s.CreateSession("general")

	before, ok := s.GetSession(sess.ID)
	require.True(t, ok)

	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "Build a plan"})
	require.NoError(t, err)

	after, ok := s.GetSession(sess.ID)
	require.True(t, ok)
	assert.Len(t, after.Messages, len(before.Messages)+1)
	assert.Greater(t, after.LastModified, before.LastModified)

	_, err = s.AppendMessage(sess.ID, Message{Role: council.RolePlanner, Content: "plan"})
	require.NoError(t, err)
	again, _ := s.GetSession(sess.ID)
	assert.Greater(t, again.LastModified, after.LastModified)
}

func TestAppendMessageFillsIDAndTimestamp(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general")

	msg, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Timestamp)
}

func TestAppendMessageUnknownSession(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	_, err := s.AppendMessage("missing", Message{Role: council.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTitleSetOnceFromFirstUserMessage(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general")

	first := "Increase Q3 revenue by 20% through channel diversification"
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: first})
	require.NoError(t, err)

	got, _ := s.GetSession(sess.ID)
	assert.Equal(t, first[:40]+"...", got.Title)

	_, err = s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "Something else entirely"})
	require.NoError(t, err)
	got, _ = s.GetSession(sess.ID)
	assert.Equal(t, first[:40]+"...", got.Title)
}

func TestTitleShortMessageNotTruncated(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general")
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "Cut costs"})
	require.NoError(t, err)
	got, _ := s.GetSession(sess.ID)
	assert.Equal(t, "Cut costs", got.Title)
}

func TestTitleIgnoresAgentFirstMessage(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general")
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RolePlanner, Content: "unprompted"})
	require.NoError(t, err)
	_, err = s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "late user"})
	require.NoError(t, err)

	got, _ := s.GetSession(sess.ID)
	assert.Equal(t, DefaultTitle, got.Title)
}

func TestTitlePresetIsKept(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general", WithTitle("Cut costs"))
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "**Context:** Industry: Finance"})
	require.NoError(t, err)
	got, _ := s.GetSession(sess.ID)
	assert.Equal(t, "Cut costs", got.Title)
}

func TestReplaceLastMessage(t *testing.T) {
	s := frozenStore(t, NewMemoryBackend())
	sess := s.CreateSession("general")

	_, err := s.ReplaceLastMessage(sess.ID, "x", 1)
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = s.AppendMessage(sess.ID, Message{Role: council.RolePlanner, IsThinking: true})
	require.NoError(t, err)
	before, _ := s.GetSession(sess.ID)
	assert.True(t, before.Thinking())

	committed, err := s.ReplaceLastMessage(sess.ID, "the plan", 91)
	require.NoError(t, err)
	assert.False(t, committed.IsThinking)

	after, _ := s.GetSession(sess.ID)
	require.Len(t, after.Messages, 1)
	last, _ := after.LastMessage()
	assert.Equal(t, "the plan", last.Content)
	assert.False(t, last.IsThinking)
	c, ok := last.Confidence()
	assert.True(t, ok)
	assert.Equal(t, 91, c)
	assert.Greater(t, after.LastModified, before.LastModified)
}

func TestReturnedSessionsAreCopies(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	sess := s.CreateSession("general")
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "original"})
	require.NoError(t, err)

	got, _ := s.GetSession(sess.ID)
	got.Messages[0].Content = "mutated"
	got.Title = "mutated"

	fresh, _ := s.GetSession(sess.ID)
	assert.Equal(t, "original", fresh.Messages[0].Content)
	assert.NotEqual(t, "mutated", fresh.Title)
}

func TestSnapshotFlushedAfterEveryMutation(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewSessionStore(backend)

	_, err := backend.Get(SnapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	sess := s.CreateSession("product")
	var list []Session
	data, err := backend.Get(SnapshotKey)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)

	_, err = s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "hello"})
	require.NoError(t, err)
	data, _ = backend.Get(SnapshotKey)
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list[0].Messages, 1)
	assert.Equal(t, "hello", list[0].Messages[0].Content)
	assert.Contains(t, string(data), `"templateId":"product"`)
	assert.Contains(t, string(data), `"lastModified"`)
}

func TestHydrateRoundTrip(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewSessionStore(backend)
	a := s.CreateSession("general")
	b := s.CreateSession("career")
	_, err := s.AppendMessage(a.ID, Message{Role: council.RoleUser, Content: "first"})
	require.NoError(t, err)

	reloaded := NewSessionStore(backend)
	list := reloaded.ListSessions()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, "first", list[1].Title)

	// timestamps keep increasing after a reload
	c := reloaded.CreateSession("general")
	assert.Greater(t, c.LastModified, list[1].LastModified)
}

func TestHydrateRecoversInterruptedRun(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewSessionStore(backend)
	sess := s.CreateSession("general")
	require.NoError(t, s.SetStatus(sess.ID, StatusActive))
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RolePlanner, IsThinking: true})
	require.NoError(t, err)

	reloaded := NewSessionStore(backend)
	got, ok := reloaded.GetSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.False(t, got.Thinking())
	last, _ := got.LastMessage()
	assert.Equal(t, council.ErrorResponseText, last.Content)
}

func TestHydrateUnparseableStartsEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(SnapshotKey, []byte("{not json")))

	s := NewSessionStore(backend)
	assert.Empty(t, s.ListSessions())
}

func TestFlushFailureIsNotFatal(t *testing.T) {
	backend := NewMemoryBackend()
	backend.FailPut = errors.New("disk full")
	s := NewSessionStore(backend)

	sess := s.CreateSession("general")
	_, err := s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "still works"})
	require.NoError(t, err)

	got, ok := s.GetSession(sess.ID)
	require.True(t, ok)
	assert.Len(t, got.Messages, 1)
}

func TestSetStatusUnknownSession(t *testing.T) {
	s := NewSessionStore(NewMemoryBackend())
	assert.ErrorIs(t, s.SetStatus("nope", StatusActive), ErrSessionNotFound)
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	_, err = b.Get(SnapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.Put(SnapshotKey, []byte(`[]`)))
	require.NoError(t, b.Put(SnapshotKey, []byte(`[{"id":"x"}]`)))
	got, err := b.Get(SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(got))
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Get(SnapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.Put(SnapshotKey, []byte("one")))
	require.NoError(t, b.Put(SnapshotKey, []byte("two")))
	got, err := b.Get(SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestPebbleBackend(t *testing.T) {
	b, err := NewPebbleBackend(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Get(SnapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, b.Put(SnapshotKey, []byte("snapshot")))
	got, err := b.Get(SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(got))
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenBackend("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = OpenBackend("redis", dir)
	assert.Error(t, err)
}

func TestStoreOverFileBackendSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	s := NewSessionStore(b)
	sess := s.CreateSession("marketing")
	_, err = s.AppendMessage(sess.ID, Message{Role: council.RoleUser, Content: "Launch plan"})
	require.NoError(t, err)

	b2, err := NewFileBackend(dir)
	require.NoError(t, err)
	got, ok := NewSessionStore(b2).GetSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "Launch plan", got.Title)
}

func TestFilterSessions(t *testing.T) {
	sessions := []Session{
		{ID: "1", Title: "Marketing launch for sneakers"},
		{ID: "2", Title: "Quarterly budget review"},
		{ID: "3", Title: "Hiring plan"},
	}

	assert.Len(t, FilterSessions(sessions, ""), 3)

	got := FilterSessions(sessions, "budget")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Empty(t, FilterSessions(sessions, "zzzz"))
}

func TestSearchMessages(t *testing.T) {
	msgs := []Message{
		{Role: council.RoleUser, Content: "Plan the Launch"},
		{Role: council.RolePlanner, Content: "launch steps"},
		{Role: council.RoleExecutor, IsThinking: true, Content: "launch"},
	}
	got := SearchMessages(msgs, "LAUNCH")
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].MessageIndex)
	assert.Equal(t, council.RolePlanner, got[1].Role)
	assert.Empty(t, SearchMessages(msgs, ""))
}

func sampleSession() Session {
	return Session{
		ID:           "s1",
		Title:        "Cut costs",
		TemplateID:   "general",
		LastModified: 1_700_000_000_000,
		Status:       StatusCompleted,
		Messages: []Message{
			{ID: "m1", Role: council.RoleUser, Content: "Cut costs"},
			{ID: "m2", Role: council.RolePlanner, Content: "Step 1", Metadata: NewConfidence(70)},
			{ID: "m3", Role: council.RoleManager, Content: "Final", Metadata: NewConfidence(90)},
		},
	}
}

func TestExportFormats(t *testing.T) {
	s := sampleSession()

	var js bytes.Buffer
	require.NoError(t, Export(&js, s, FormatJSON))
	var decoded Session
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, s.ID, decoded.ID)

	var ym bytes.Buffer
	require.NoError(t, Export(&ym, s, FormatYAML))
	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &generic))
	assert.Equal(t, "Cut costs", generic["title"])
	assert.Equal(t, "general", generic["template_id"])

	var md bytes.Buffer
	require.NoError(t, Export(&md, s, FormatMarkdown))
	out := md.String()
	assert.True(t, strings.HasPrefix(out, "# Cut costs\n"))
	assert.Contains(t, out, "## The Planner (Strategic Architect)")
	assert.Contains(t, out, "> Confidence: 70%")
	assert.Contains(t, out, "**Council consensus:** 80%")

	assert.Error(t, Export(&md, s, ExportFormat("pdf")))
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("Markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	f, err = ParseExportFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseExportFormat("docx")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Plan--Q3-revenue", SanitizeFilename("Plan: Q3 revenue?"))
	assert.Equal(t, "session", SanitizeFilename("..."))
	assert.Len(t, SanitizeFilename(strings.Repeat("a", 80)), 50)
}

func TestInstanceLock(t *testing.T) {
	l := NewInstanceLock(t.TempDir())

	locked, _, err := l.Check()
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, l.Acquire())
	// our own pid never counts as another instance
	locked, _, err = l.Check()
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, l.Release())
	require.NoError(t, l.Release())
}
