package watcher

import (
	"time"

	"claudelens/internal/archive"
)

// =============================================================================
// SESSION ACTIVITY
// =============================================================================

// activity records when each session file was last touched. It is owned by
// the engine loop and is not safe for concurrent use.
type activity struct {
	lastSeen map[string]time.Time
	timeout  time.Duration
	now      func() time.Time
}

func newActivity(timeout time.Duration, now func() time.Time) *activity {
	return &activity{
		lastSeen: make(map[string]time.Time),
		timeout:  timeout,
		now:      now,
	}
}

// touch refreshes every session file among paths.
func (a *activity) touch(paths []string) {
	now := a.now()
	for _, path := range paths {
		if archive.IsLogFile(path) {
			a.lastSeen[path] = now
		}
	}
}

// expire removes the files quiet for longer than the timeout and returns
// their session ids.
func (a *activity) expire() []string {
	now := a.now()
	var done []string
	for path, seen := range a.lastSeen {
		if now.Sub(seen) > a.timeout {
			delete(a.lastSeen, path)
			done = append(done, archive.SessionIDFromPath(path))
		}
	}
	return done
}

func (a *activity) len() int {
	return len(a.lastSeen)
}
