package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudelens/internal/archive"
)

func writeCommandHistory(t *testing.T, layout archive.Layout, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(layout.ClaudeDir, 0o755))
	require.NoError(t, os.WriteFile(layout.CommandHistoryPath(), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestReadCommandHistory(t *testing.T) {
	store, layout := newTestStore(t)

	entries, err := store.ReadCommandHistory(0)
	require.NoError(t, err, "missing file reads as empty")
	assert.Empty(t, entries)

	writeCommandHistory(t, layout,
		`{"display":"/help","project":"/p","timestamp":100}`,
		`not json`,
		``,
		`{"display":"fix it","project":"/p","timestamp":300}`,
		`{"display":"run tests","project":"/q","timestamp":200}`,
	)

	entries, err = store.ReadCommandHistory(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(300), entries[0].Timestamp)
	assert.Equal(t, "fix it", entries[0].Display)
	assert.Equal(t, uint64(200), entries[1].Timestamp)
	assert.Equal(t, uint64(100), entries[2].Timestamp)

	entries, err = store.ReadCommandHistory(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDeleteCommandEntry(t *testing.T) {
	store, layout := newTestStore(t)
	require.NoError(t, store.DeleteCommandEntry(1), "missing file is a no-op")

	writeCommandHistory(t, layout,
		`{"display":"a","project":"/p","timestamp":1}`,
		``,
		`keep me`,
		`{"display":"b","project":"/p","timestamp":2}`,
	)

	require.NoError(t, store.DeleteCommandEntry(1))

	data, err := os.ReadFile(layout.CommandHistoryPath())
	require.NoError(t, err)
	assert.Equal(t, "keep me\n{\"display\":\"b\",\"project\":\"/p\",\"timestamp\":2}\n", string(data))
}

func TestClearCommandHistory(t *testing.T) {
	store, layout := newTestStore(t)
	require.NoError(t, store.ClearCommandHistory())
	assert.NoFileExists(t, layout.CommandHistoryPath(), "clearing does not create the file")

	writeCommandHistory(t, layout, `{"display":"a","project":"/p","timestamp":1}`)
	require.NoError(t, store.ClearCommandHistory())

	data, err := os.ReadFile(layout.CommandHistoryPath())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestAttachments(t *testing.T) {
	store, layout := newTestStore(t)
	path := writeSession(t, layout, "-p", "s", userLine("x", "1"))

	attachments, err := store.Attachments(path)
	require.NoError(t, err)
	assert.Empty(t, attachments)

	sidecar := archive.SidecarDir(path)
	require.NoError(t, os.MkdirAll(filepath.Join(sidecar, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sidecar, "images", "shot.png"), []byte("png!"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sidecar, "notes.txt"), []byte("hi"), 0o644))

	attachments, err = store.Attachments(path)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	assert.Equal(t, "images/shot.png", attachments[0].Name)
	assert.Equal(t, int64(4), attachments[0].Size)
	assert.Equal(t, "notes.txt", attachments[1].Name)
	assert.Equal(t, filepath.Join(sidecar, "notes.txt"), attachments[1].Path)
}
