package history

import (
	"bufio"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// DefaultCommandHistoryLimit caps ReadCommandHistory when the caller passes 0.
const DefaultCommandHistoryLimit = 100

// =============================================================================
// COMMAND HISTORY (history.jsonl)
// =============================================================================

// ReadCommandHistory returns the newest prompt history entries first, at
// most limit of them. Malformed lines are skipped; a missing file is empty.
func (s *Store) ReadCommandHistory(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultCommandHistoryLimit
	}

	path := s.layout.CommandHistoryPath()
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.HistoryEntry{}, nil
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	entries := make([]types.HistoryEntry, 0)
	err = archive.ForEachLine(file, func(_ int, line string) bool {
		var entry types.HistoryEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return true
		}
		entries = append(entries, entry)
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DeleteCommandEntry rewrites the history file without the entries carrying
// timestamp. Blank lines are dropped; malformed lines are kept.
func (s *Store) DeleteCommandEntry(timestamp uint64) error {
	path := s.layout.CommandHistoryPath()
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "open %s", path)
	}

	var remaining []string
	err = archive.ForEachLine(file, func(_ int, line string) bool {
		var entry types.HistoryEntry
		if json.Unmarshal([]byte(line), &entry) == nil && entry.Timestamp == timestamp {
			return true
		}
		remaining = append(remaining, line)
		return true
	})
	file.Close()
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "rewrite %s", path)
	}
	w := bufio.NewWriter(out)
	for _, line := range remaining {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return out.Close()
}

// ClearCommandHistory truncates the history file if it exists.
func (s *Store) ClearCommandHistory() error {
	path := s.layout.CommandHistoryPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return errors.Wrapf(err, "clear %s", path)
	}
	return nil
}

// =============================================================================
// SIDE-CAR ATTACHMENTS
// =============================================================================

// Attachments lists the regular files stored in the side-car directory of a
// session file. A session without a side-car directory has none.
func (s *Store) Attachments(path string) ([]types.Attachment, error) {
	root := archive.SidecarDir(path)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return []types.Attachment{}, nil
	}

	attachments := make([]types.Attachment, 0)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		name, _ := filepath.Rel(root, p)
		attachments = append(attachments, types.Attachment{
			Name: filepath.ToSlash(name),
			Path: p,
			Size: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list attachments of %s", path)
	}
	return attachments, nil
}
