package completions

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudelens/internal/watcher"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", DBFile))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	recents, err := store.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, recents)

	for i, id := range []string{"a", "b", "c"} {
		c, err := store.Record(id, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
	}

	recents, err = store.Recent(2)
	require.NoError(t, err)
	require.Len(t, recents, 2)
	assert.Equal(t, "c", recents[0].SessionID)
	assert.Equal(t, "b", recents[1].SessionID)
	assert.True(t, base.Add(2*time.Minute).Equal(recents[0].CompletedAt))
	assert.NotEqual(t, recents[0].ID, recents[1].ID)
}

func TestRecordingWrapsEmitter(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	var delivered []string
	next := watcher.EmitterFunc(func(event string, _ any) {
		delivered = append(delivered, event)
	})
	emit := store.Recording(next, func() time.Time { return at })

	emit.Emit(watcher.EventHistoryChanged, nil)
	emit.Emit(watcher.EventSessionCompleted, "s1")

	assert.Equal(t, []string{watcher.EventHistoryChanged, watcher.EventSessionCompleted}, delivered)

	recents, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, recents, 1)
	assert.Equal(t, "s1", recents[0].SessionID)
	assert.True(t, at.Equal(recents[0].CompletedAt))
}

func TestRecordingSurvivesClosedStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	delivered := 0
	emit := store.Recording(watcher.EmitterFunc(func(string, any) { delivered++ }), nil)
	emit.Emit(watcher.EventSessionCompleted, "s1")
	assert.Equal(t, 1, delivered, "delivery does not depend on storage")
}
