// Package archive knows the on-disk layout of the Claude Code transcript
// archive: ~/.claude/projects/{encoded-folder}/{sessionID}.jsonl, with an
// optional side-car directory {sessionID}/ next to each session file.
package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// LogExt is the extension of session transcript files.
	LogExt = ".jsonl"

	// ProjectsDirName is the archive subdirectory holding one directory per project.
	ProjectsDirName = "projects"

	// CommandHistoryFile is the prompt history file at the root of the claude dir.
	CommandHistoryFile = "history.jsonl"
)

var (
	// ErrNotFound is returned by point lookups when the requested file is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSessionPath is returned by ValidateSessionPath.
	ErrInvalidSessionPath = errors.New("invalid session path")
)

// =============================================================================
// LAYOUT
// =============================================================================

// Layout locates the archive on disk.
type Layout struct {
	ClaudeDir string
}

// DefaultClaudeDir returns ~/.claude.
func DefaultClaudeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".claude")
}

// NewLayout returns a layout rooted at claudeDir, or at ~/.claude if empty.
func NewLayout(claudeDir string) Layout {
	if claudeDir == "" {
		claudeDir = DefaultClaudeDir()
	}
	return Layout{ClaudeDir: claudeDir}
}

// ProjectsDir returns the directory holding the per-project directories.
func (l Layout) ProjectsDir() string {
	return filepath.Join(l.ClaudeDir, ProjectsDirName)
}

// CommandHistoryPath returns the path of the prompt history file.
func (l Layout) CommandHistoryPath() string {
	return filepath.Join(l.ClaudeDir, CommandHistoryFile)
}

// ProjectDir is one project directory of the archive.
type ProjectDir struct {
	Name string // Encoded name, e.g. "-Users-me-code-app"
	Path string
}

// ListProjectDirs returns the project directories in listing order. A missing
// projects directory yields an empty list; failing to read an existing one is
// an error.
func (l Layout) ListProjectDirs() ([]ProjectDir, error) {
	root := l.ProjectsDir()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read projects dir %s", root)
	}

	var dirs []ProjectDir
	for _, entry := range entries {
		// Encoded absolute paths always start with the separator marker
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "-") {
			continue
		}
		dirs = append(dirs, ProjectDir{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		})
	}
	return dirs, nil
}

// ListLogFiles returns the session files of a project directory in listing order.
func ListLogFiles(projectDir string) ([]string, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, errors.Wrapf(err, "read project dir %s", projectDir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != LogExt {
			continue
		}
		files = append(files, filepath.Join(projectDir, entry.Name()))
	}
	return files, nil
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// SessionIDFromPath returns the file name without its extension.
func SessionIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SidecarDir returns the attachment directory that belongs to a session file.
func SidecarDir(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// IsLogFile reports whether path has the session file extension.
func IsLogFile(path string) bool {
	return filepath.Ext(path) == LogExt
}

// EncodeProjectPath turns a folder path into its project directory name.
func EncodeProjectPath(folder string) string {
	return strings.ReplaceAll(folder, "/", "-")
}

// DecodeProjectPath reverses EncodeProjectPath. Dashes that were part of the
// original folder names cannot be told apart and also become separators.
func DecodeProjectPath(encoded string) string {
	return strings.ReplaceAll(encoded, "-", "/")
}

// DecodeProjectName returns the last path segment of an encoded project name.
func DecodeProjectName(encoded string) string {
	segments := strings.Split(DecodeProjectPath(encoded), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return encoded
}

// ValidateSessionPath checks that path is an absolute session file path
// inside the projects directory. Existing files are checked again after
// resolving symlinks; missing files only get the lexical check so they can
// still be deleted.
func (l Layout) ValidateSessionPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", errors.Wrap(ErrInvalidSessionPath, "session path must be absolute")
	}
	clean := filepath.Clean(path)
	if !IsLogFile(clean) {
		return "", errors.Wrap(ErrInvalidSessionPath, "invalid file type")
	}
	projects := filepath.Clean(l.ProjectsDir())
	if !within(projects, clean) {
		return "", errors.Wrap(ErrInvalidSessionPath, "path outside allowed directory")
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return clean, nil
		}
		return "", errors.Wrap(ErrInvalidSessionPath, "cannot resolve session path")
	}
	if base, err := filepath.EvalSymlinks(projects); err == nil {
		projects = base
	}
	if !within(projects, resolved) {
		return "", errors.Wrap(ErrInvalidSessionPath, "path resolves outside allowed directory")
	}
	return clean, nil
}

// within reports whether path lies strictly below dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
