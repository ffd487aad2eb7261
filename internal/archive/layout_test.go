package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudelens/internal/types"
)

func TestListProjectDirs(t *testing.T) {
	layout := NewLayout(t.TempDir())

	dirs, err := layout.ListProjectDirs()
	require.NoError(t, err, "missing projects dir is not an error")
	assert.Empty(t, dirs)

	for _, name := range []string{"-b-proj", "-a-proj", "not-encoded"} {
		require.NoError(t, os.MkdirAll(filepath.Join(layout.ProjectsDir(), name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(layout.ProjectsDir(), "-file"), nil, 0o644))

	dirs, err = layout.ListProjectDirs()
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "-a-proj", dirs[0].Name)
	assert.Equal(t, "-b-proj", dirs[1].Name)
	assert.Equal(t, filepath.Join(layout.ProjectsDir(), "-a-proj"), dirs[0].Path)
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "notes.txt", "c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.jsonl"), 0o755))

	files, err := ListLogFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jsonl"), filepath.Join(dir, "b.jsonl")}, files)

	_, err = ListLogFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "abc-123", SessionIDFromPath("/x/-p/abc-123.jsonl"))
	assert.Equal(t, "/x/-p/abc-123", SidecarDir("/x/-p/abc-123.jsonl"))
	assert.True(t, IsLogFile("/x/a.jsonl"))
	assert.False(t, IsLogFile("/x/a.json"))

	assert.Equal(t, "-Users-me-code-app", EncodeProjectPath("/Users/me/code/app"))
	assert.Equal(t, "/Users/me/code/app", DecodeProjectPath("-Users-me-code-app"))
	assert.Equal(t, "app", DecodeProjectName("-Users-me-code-app"))
	assert.Equal(t, "app", DecodeProjectName("-Users-me-code-app-"))
	assert.Equal(t, "---", DecodeProjectName("---"))
}

func TestValidateSessionPath(t *testing.T) {
	layout := NewLayout("/home/u/.claude")
	ok := "/home/u/.claude/projects/-p/abc.jsonl"

	got, err := layout.ValidateSessionPath(ok)
	require.NoError(t, err)
	assert.Equal(t, ok, got)

	for _, bad := range []string{
		"relative/file.jsonl",
		"/home/u/.claude/projects/-p/abc.txt",
		"/home/u/.claude/history.jsonl",
		"/home/u/.claude/projects/../../etc/x.jsonl",
		"/elsewhere/x.jsonl",
	} {
		_, err := layout.ValidateSessionPath(bad)
		assert.True(t, errors.Is(err, ErrInvalidSessionPath), bad)
	}
}

func TestValidateSessionPathResolvesSymlinks(t *testing.T) {
	layout := NewLayout(t.TempDir())
	project := filepath.Join(layout.ProjectsDir(), "-p")
	require.NoError(t, os.MkdirAll(project, 0o755))

	outside := filepath.Join(t.TempDir(), "secret.jsonl")
	require.NoError(t, os.WriteFile(outside, []byte("{}\n"), 0o644))

	link := filepath.Join(project, "link.jsonl")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	_, err := layout.ValidateSessionPath(link)
	assert.True(t, errors.Is(err, ErrInvalidSessionPath))

	plain := filepath.Join(project, "plain.jsonl")
	require.NoError(t, os.WriteFile(plain, []byte("{}\n"), 0o644))
	got, err := layout.ValidateSessionPath(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	inner := filepath.Join(project, "inner.jsonl")
	require.NoError(t, os.Symlink(plain, inner))
	_, err = layout.ValidateSessionPath(inner)
	assert.NoError(t, err)

	missing := filepath.Join(project, "gone.jsonl")
	got, err = layout.ValidateSessionPath(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestForEachLineCountsNonBlankLines(t *testing.T) {
	input := "a\n\n   \nb\n\tc\n"
	var seen []string
	var indexes []int
	err := ForEachLine(strings.NewReader(input), func(n int, line string) bool {
		seen = append(seen, line)
		indexes = append(indexes, n)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "\tc"}, seen)
	assert.Equal(t, []int{1, 2, 3}, indexes)
}

func TestForEachRecordCountsSkippedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	content := strings.Join([]string{
		`{"type":"user","message":{"content":"hi"}}`,
		`not json`,
		``,
		`{"type":"assistant"`,
		`{"type":"summary"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var kinds []types.RecordKind
	stats, err := ForEachRecord(path, func(rec *types.LogRecord) bool {
		kinds = append(kinds, rec.Kind)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, ScanStats{Lines: 4, Decoded: 2, Skipped: 2}, stats)
	assert.Equal(t, []types.RecordKind{types.RecordKindUser, types.RecordKindOther}, kinds)
}

func TestStatExistingMapsNotFound(t *testing.T) {
	_, err := StatExisting(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "file not found")
}
