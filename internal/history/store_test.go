package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudelens/internal/archive"
)

// =============================================================================
// FIXTURES
// =============================================================================

func userLine(text, ts string) string {
	return fmt.Sprintf(`{"type":"user","timestamp":%q,"message":{"role":"user","content":%q}}`, ts, text)
}

func assistantLine(text, ts string) string {
	return fmt.Sprintf(`{"type":"assistant","timestamp":%q,"message":{"role":"assistant","model":"claude-test","content":[{"type":"text","text":%q}]}}`, ts, text)
}

func writeSession(t *testing.T, layout archive.Layout, project, sessionID string, lines ...string) string {
	t.Helper()
	dir := filepath.Join(layout.ProjectsDir(), project)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, sessionID+archive.LogExt)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func newTestStore(t *testing.T, opts ...Option) (*Store, archive.Layout) {
	t.Helper()
	layout := archive.NewLayout(t.TempDir())
	return NewStore(layout, opts...), layout
}

// =============================================================================
// LIST
// =============================================================================

func TestListConversations(t *testing.T) {
	store, layout := newTestStore(t)

	writeSession(t, layout, "-home-me-alpha", "old",
		`{"type":"summary","summary":"x"}`,
		userLine("first question", "2025-01-01T10:00:00Z"),
		assistantLine("first answer", "2025-01-01T10:00:01Z"),
		userLine("second question", "2025-01-01T10:00:02Z"),
	)
	writeSession(t, layout, "-home-me-beta", "new",
		userLine("  ", "2025-02-01T00:00:00Z"),
		userLine("real opener", "2025-02-02T00:00:00Z"),
		`garbage line`,
	)
	writeSession(t, layout, "-home-me-beta", "assistant-only",
		assistantLine("nobody asked", "2025-03-01T00:00:00Z"),
	)
	writeSession(t, layout, "-home-me-beta", "empty")

	conversations, err := store.ListConversations("")
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, "new", conversations[0].SessionID, "most recent first")
	assert.Equal(t, "real opener", conversations[0].FirstMessagePreview)
	assert.Equal(t, "2025-02-02T00:00:00Z", conversations[0].Timestamp)
	assert.Equal(t, 1, conversations[0].MessageCount)
	assert.Equal(t, "-home-me-beta", conversations[0].Project)

	assert.Equal(t, "old", conversations[1].SessionID)
	assert.Equal(t, "first question", conversations[1].FirstMessagePreview)
	assert.Equal(t, 3, conversations[1].MessageCount)
	assert.Equal(t, filepath.Join(layout.ProjectsDir(), "-home-me-alpha", "old.jsonl"), conversations[1].FilePath)
}

func TestListConversationsProjectFilter(t *testing.T) {
	store, layout := newTestStore(t)
	writeSession(t, layout, "-a", "s1", userLine("in a", "1"))
	writeSession(t, layout, "-b", "s2", userLine("in b", "2"))

	conversations, err := store.ListConversations("-a")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "s1", conversations[0].SessionID)

	conversations, err = store.ListConversations("-missing")
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestListConversationsMissingArchive(t *testing.T) {
	store, _ := newTestStore(t)
	conversations, err := store.ListConversations("")
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestScanObserverSeesTotalParseFailure(t *testing.T) {
	seen := map[string]archive.ScanStats{}
	store, layout := newTestStore(t, WithScanObserver(func(path string, stats archive.ScanStats) {
		seen[archive.SessionIDFromPath(path)] = stats
	}))
	writeSession(t, layout, "-p", "broken", "nope", "{", "[1,2")

	conversations, err := store.ListConversations("")
	require.NoError(t, err)
	assert.Empty(t, conversations)
	assert.Equal(t, archive.ScanStats{Lines: 3, Decoded: 0, Skipped: 3}, seen["broken"])
}

// =============================================================================
// READ
// =============================================================================

func TestReadConversation(t *testing.T) {
	store, layout := newTestStore(t)
	path := writeSession(t, layout, "-p", "s",
		userLine("hello", "t1"),
		`{"type":"system","subtype":"turn_duration"}`,
		`{"type":"assistant","timestamp":"t2","message":{"role":"assistant","content":[{"type":"tool_use","name":"Read"}]}}`,
		assistantLine(strings.Repeat("z", 250), "t3"),
		`{broken`,
		`{"type":"user","timestamp":"t4","message":{"content":"no role"}}`,
	)

	messages, err := store.ReadConversation(path)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "t1", messages[0].Timestamp)
	assert.Equal(t, "user", messages[0].MessageType)

	assert.Equal(t, "assistant", messages[1].MessageType)
	assert.Equal(t, strings.Repeat("z", 200)+"...", messages[1].Content)

	assert.Equal(t, "user", messages[2].Role, "role falls back to the record type")
	assert.Equal(t, "t4", messages[2].Timestamp)
}

func TestReadConversationNotFound(t *testing.T) {
	store, layout := newTestStore(t)
	_, err := store.ReadConversation(filepath.Join(layout.ProjectsDir(), "-p", "gone.jsonl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, archive.ErrNotFound))
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearchConversationsIsCaseInsensitive(t *testing.T) {
	store, layout := newTestStore(t)
	path := writeSession(t, layout, "-p", "s",
		userLine("Deploy the WIDGET", "t1"),
		`{"type":"summary","summary":"widget summary"}`,
		assistantLine("no match here", "t2"),
	)

	hits, err := store.SearchConversations("widget", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1, "non-message records never match")
	assert.Equal(t, path, hits[0].SessionPath)
	assert.Equal(t, "-p", hits[0].Project)
	assert.Equal(t, "Deploy the WIDGET", hits[0].MatchedLine)
	assert.Equal(t, "t1", hits[0].Timestamp)
}

func TestSearchConversationsMatchesRawLine(t *testing.T) {
	store, layout := newTestStore(t)
	writeSession(t, layout, "-p", "s",
		`{"type":"assistant","timestamp":"t","message":{"model":"needle-model","content":[{"type":"text","text":"visible"}]}}`,
	)

	hits, err := store.SearchConversations("NEEDLE", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "visible", hits[0].MatchedLine, "hit reports the preview, not the raw line")
}

func TestSearchConversationsStopsGlobally(t *testing.T) {
	store, layout := newTestStore(t)
	first := writeSession(t, layout, "-a", "s1", userLine("match one", "1"), userLine("match two", "2"))
	writeSession(t, layout, "-a", "s2", userLine("match three", "3"))
	writeSession(t, layout, "-b", "s3", userLine("match four", "4"), userLine("match five", "5"))

	hits, err := store.SearchConversations("match", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, first, hits[0].SessionPath)
	assert.Equal(t, "match one", hits[0].MatchedLine)
	assert.Equal(t, first, hits[1].SessionPath)
	assert.Equal(t, "match two", hits[1].MatchedLine)

	hits, err = store.SearchConversations("match", 4)
	require.NoError(t, err)
	require.Len(t, hits, 4)
	assert.Equal(t, "match four", hits[3].MatchedLine, "enumeration order decides which hits are kept")
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteConversationRemovesSidecar(t *testing.T) {
	store, layout := newTestStore(t)
	path := writeSession(t, layout, "-p", "s", userLine("x", "1"))
	sidecar := archive.SidecarDir(path)
	require.NoError(t, os.MkdirAll(filepath.Join(sidecar, "subagents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sidecar, "subagents", "agent-1.jsonl"), []byte("{}"), 0o644))

	require.NoError(t, store.DeleteConversation(path))
	assert.NoFileExists(t, path)
	assert.NoDirExists(t, sidecar)
}

func TestDeleteConversationMissingIsNotAnError(t *testing.T) {
	store, layout := newTestStore(t)
	assert.NoError(t, store.DeleteConversation(filepath.Join(layout.ProjectsDir(), "-p", "nope.jsonl")))
}

func TestDeleteConversationMissingFileStillRemovesSidecar(t *testing.T) {
	store, layout := newTestStore(t)
	path := filepath.Join(layout.ProjectsDir(), "-p", "orphan.jsonl")
	require.NoError(t, os.MkdirAll(archive.SidecarDir(path), 0o755))

	require.NoError(t, store.DeleteConversation(path))
	assert.NoDirExists(t, archive.SidecarDir(path))
}

func TestClearAllConversations(t *testing.T) {
	store, layout := newTestStore(t)
	writeSession(t, layout, "-a", "s1", userLine("x", "1"))
	writeSession(t, layout, "-a", "s2", userLine("y", "2"))
	keep := writeSession(t, layout, "-b", "s3", userLine("z", "3"))

	count, err := store.ClearAllConversations("-a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.FileExists(t, keep)

	count, err = store.ClearAllConversations("")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoFileExists(t, keep)
}
