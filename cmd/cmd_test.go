package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"council/config"
	"council/council"
	"council/storage"
)

// isolate points HOME at a temp dir, clears COUNCIL_* overrides and
// returns a fresh data directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{config.EnvDataDir, config.EnvProvider, config.EnvModel, config.EnvOllamaHost, config.EnvDebug} {
		t.Setenv(k, "")
	}
	return filepath.Join(home, "data")
}

func runApp(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp("test")
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"council", "--data-dir", dataDir}, args...))
	return out.String(), err
}

// seed writes one session with a user message and a planner reply.
func seed(t *testing.T, dataDir string) storage.Session {
	t.Helper()
	backend, err := storage.NewFileBackend(dataDir)
	require.NoError(t, err)
	store := storage.NewSessionStore(backend)

	sess := store.CreateSession(council.DefaultTemplateID, storage.WithTitle("Launch plan"))
	_, err = store.AppendMessage(sess.ID, storage.Message{Role: council.RoleUser, Content: "Plan the launch"})
	require.NoError(t, err)
	_, err = store.AppendMessage(sess.ID, storage.Message{
		Role:     council.RolePlanner,
		Content:  "Three phases.",
		Metadata: storage.NewConfidence(88),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	sess, ok := store.GetSession(sess.ID)
	require.True(t, ok)
	return sess
}

func TestTemplatesCommand(t *testing.T) {
	out, err := runApp(t, isolate(t), "templates")
	require.NoError(t, err)

	assert.Contains(t, out, "General Council (general)")
	assert.Contains(t, out, "The Planner")
	assert.Contains(t, out, "Marketing Launch (marketing)")
	assert.Contains(t, out, "Head of Strategy")
}

func TestSessionsListEmpty(t *testing.T) {
	out, err := runApp(t, isolate(t), "sessions", "list")
	require.NoError(t, err)
	assert.Equal(t, "No past sessions\n", out)
}

func TestSessionsList(t *testing.T) {
	dataDir := isolate(t)
	sess := seed(t, dataDir)

	out, err := runApp(t, dataDir, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, sess.ID)
	assert.Contains(t, out, "Launch plan")
	assert.Contains(t, out, "General Council")
	assert.Contains(t, out, "2 msgs")
	assert.Contains(t, out, "88%")

	out, err = runApp(t, dataDir, "sessions", "list", "--filter", "Launch")
	require.NoError(t, err)
	assert.Contains(t, out, sess.ID)

	out, err = runApp(t, dataDir, "sessions", "list", "--filter", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No past sessions\n", out)
}

func TestSessionsShow(t *testing.T) {
	dataDir := isolate(t)
	sess := seed(t, dataDir)

	out, err := runApp(t, dataDir, "sessions", "show", sess.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "# Launch plan")
	assert.Contains(t, out, "## User")
	assert.Contains(t, out, "## The Planner (Strategic Architect)")
	assert.Contains(t, out, "> Confidence: 88%")

	_, err = runApp(t, dataDir, "sessions", "show", "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	_, err = runApp(t, dataDir, "sessions", "show")
	assert.Error(t, err)
}

func TestSessionsExport(t *testing.T) {
	dataDir := isolate(t)
	sess := seed(t, dataDir)
	path := filepath.Join(t.TempDir(), "out", "session.json")

	out, err := runApp(t, dataDir, "sessions", "export", "--format", "json", "--out", path, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Exported to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got storage.Session
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sess.ID, got.ID)
	assert.Len(t, got.Messages, 2)

	out, err = runApp(t, dataDir, "sessions", "export", "--format", "yaml", "--out", "-", sess.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "template_id: general")

	_, err = runApp(t, dataDir, "sessions", "export", "--format", "pdf", sess.ID)
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestProvidersListAndSet(t *testing.T) {
	dataDir := isolate(t)

	out, err := runApp(t, dataDir, "providers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* ollama")

	out, err = runApp(t, dataDir, "providers", "set", "ollama", "model", "mistral:7b")
	require.NoError(t, err)
	assert.Equal(t, "Updated ollama model\n", out)

	cfg, err := config.Load(dataDir)
	require.NoError(t, err)
	assert.Equal(t, "mistral:7b", cfg.OllamaModel)

	_, err = runApp(t, dataDir, "providers", "set", "ollama", "model")
	assert.Error(t, err)
}

func TestNewRejectsUnknownTemplate(t *testing.T) {
	_, err := runApp(t, isolate(t), "new", "--template", "nope", "hello")
	assert.ErrorContains(t, err, "unknown template: nope")
}

func TestRunRequiresMessage(t *testing.T) {
	dataDir := isolate(t)
	sess := seed(t, dataDir)

	_, err := runApp(t, dataDir, "run", "--session", sess.ID)
	assert.ErrorContains(t, err, "a message is required")

	_, err = runApp(t, dataDir, "run", "--session", "missing", "hi")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestQuickStartValidates(t *testing.T) {
	_, err := runApp(t, isolate(t), "quickstart", "--industry", " ", "--role", "Founder", "--goal", "Grow")
	assert.ErrorIs(t, err, council.ErrInvalidQuickStart)
}

func TestPrintSessionsTruncatesTitle(t *testing.T) {
	var buf bytes.Buffer
	long := storage.Session{ID: "id-1", Title: "An extremely long session title that keeps going", TemplateID: "career"}
	require.NoError(t, printSessions(&buf, []storage.Session{long}))
	assert.Contains(t, buf.String(), "An extremely long session title that ...")
	assert.Contains(t, buf.String(), "0 msgs")
	assert.Contains(t, buf.String(), "-")
}
