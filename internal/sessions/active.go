package sessions

import (
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// DefaultActiveThreshold is how recently a session file must have been
// modified to count as active when the caller passes 0.
const DefaultActiveThreshold = 300 * time.Second

// =============================================================================
// ACTIVE SESSION TRACKER
// =============================================================================

// Tracker lists session files that were modified recently.
type Tracker struct {
	layout   archive.Layout
	now      func() time.Time
	observer archive.ScanObserver
}

// NewTracker creates a tracker over the given layout.
func NewTracker(layout archive.Layout) *Tracker {
	return &Tracker{
		layout:   layout,
		now:      time.Now,
		observer: archive.LogSkipped,
	}
}

// WithClock returns a copy of the tracker that reads the current time from now.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	cp := *t
	cp.now = now
	return &cp
}

// ListActiveSessions returns every session file modified within threshold
// that holds at least one qualifying message, most recently modified first.
// A threshold <= 0 means DefaultActiveThreshold.
func (t *Tracker) ListActiveSessions(threshold time.Duration) ([]types.ActiveSession, error) {
	if threshold <= 0 {
		threshold = DefaultActiveThreshold
	}

	projects, err := t.layout.ListProjectDirs()
	if err != nil {
		return nil, err
	}

	now := t.now()
	active := make([]types.ActiveSession, 0)

	for _, project := range projects {
		files, err := archive.ListLogFiles(project.Path)
		if err != nil {
			log.Debug().Err(err).Str("project", project.Name).Msg("skipping unreadable project")
			continue
		}
		projectName := archive.DecodeProjectName(project.Name)

		for _, path := range files {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			modified := info.ModTime()
			if now.Sub(modified) > threshold {
				continue
			}

			session, ok := t.inspect(path)
			if !ok {
				continue
			}
			session.Project = projectName
			session.LastModified = modified.UnixMilli()
			active = append(active, session)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].LastModified > active[j].LastModified
	})
	return active, nil
}

// inspect scans one file for its message count, last preview and last model.
// ok is false when the file cannot be read or has no qualifying message.
func (t *Tracker) inspect(path string) (types.ActiveSession, bool) {
	session := types.ActiveSession{
		SessionID: archive.SessionIDFromPath(path),
		FilePath:  path,
	}

	stats, err := archive.ForEachRecord(path, func(rec *types.LogRecord) bool {
		if !rec.IsMessage() {
			return true
		}
		text := rec.Preview()
		if text == "" {
			return true
		}
		session.MessageCount++
		session.LastMessagePreview = text
		if rec.Model != "" {
			session.Model = rec.Model
		}
		return true
	})
	if t.observer != nil {
		t.observer(path, stats)
	}
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("skipping unreadable session")
		return session, false
	}
	return session, session.MessageCount > 0
}
