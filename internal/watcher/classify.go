// Package watcher watches the Claude archive root, coalesces bursts of file
// system events, and turns them into a small set of change notifications.
// It also tracks which session files are still being written and announces
// when one goes quiet.
package watcher

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"claudelens/internal/archive"
)

// Event names delivered to the Emitter.
const (
	EventClaudeMDChanged  = "claude-md-changed"
	EventSettingsChanged  = "settings-changed"
	EventHistoryChanged   = "history-changed"
	EventEntityChanged    = "entity-changed"
	EventSessionCompleted = "session-completed"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

type rule struct {
	pattern glob.Glob
	event   string
}

// rules are evaluated in order; the first match wins. No separators are
// passed to the compiler so "*" also spans "/".
var rules = []rule{
	{glob.MustCompile("*CLAUDE.md"), EventClaudeMDChanged},
	{glob.MustCompile("*settings*.json"), EventSettingsChanged},
	{glob.MustCompile("*" + archive.LogExt), EventHistoryChanged},
	{glob.MustCompile("*/{agents,rules,commands,skills,hooks}/*"), EventEntityChanged},
}

// Classify maps a changed path to the event it should raise, or "" when the
// path is not interesting.
func Classify(path string) string {
	p := normalize(path)
	for _, r := range rules {
		if r.pattern.Match(p) {
			return r.event
		}
	}
	return ""
}

// Events classifies a batch of paths and returns each resulting event once,
// in the order it first appeared.
func Events(paths []string) []string {
	seen := make(map[string]bool, len(rules))
	var events []string
	for _, path := range paths {
		event := Classify(path)
		if event == "" || seen[event] {
			continue
		}
		seen[event] = true
		events = append(events, event)
	}
	return events
}

func normalize(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
}
