package main

import (
	"time"

	wailsrt "github.com/wailsapp/wails/v2/pkg/runtime"

	"claudelens/internal/completions"
	"claudelens/internal/sessions"
	"claudelens/internal/types"
	"claudelens/internal/watcher"
)

// =============================================================================
// LIVE SESSION METHODS (Bound to frontend)
// =============================================================================

// ListActiveSessions returns sessions modified within thresholdSeconds;
// 0 uses the configured default
func (a *App) ListActiveSessions(thresholdSeconds int) ([]types.ActiveSession, error) {
	threshold := a.currentSettings().ActiveThreshold()
	if thresholdSeconds > 0 {
		threshold = time.Duration(thresholdSeconds) * time.Second
	}
	return a.sessionTracker().ListActiveSessions(threshold)
}

// TailSession returns the messages after fromLine non-blank lines and the
// new line count to resume from
func (a *App) TailSession(path string, fromLine int) (types.TailResult, error) {
	clean, err := a.archiveLayout().ValidateSessionPath(path)
	if err != nil {
		return types.TailResult{}, err
	}
	return sessions.TailSession(clean, fromLine)
}

// GetRecentlyCompleted returns the newest entries of the completion log
func (a *App) GetRecentlyCompleted(limit int) ([]completions.Completion, error) {
	if a.completions == nil {
		return []completions.Completion{}, nil
	}
	return a.completions.Recent(limit)
}

// =============================================================================
// WATCHER (Bound to frontend)
// =============================================================================

// StartWatching starts the archive watcher. Repeated calls are no-ops, and a
// watcher that cannot start is only logged; use WatcherRunning to check.
func (a *App) StartWatching() {
	a.mu.Lock()
	if a.engine == nil {
		a.engine = a.newEngine()
	}
	engine := a.engine
	a.mu.Unlock()

	engine.Start(a.ctx)
	if !engine.Running() {
		wailsrt.LogWarning(a.ctx, "File watcher is not running; live updates are disabled")
	}
}

// WatcherRunning reports whether live updates are being delivered
func (a *App) WatcherRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine != nil && a.engine.Running()
}

// newEngine builds a watcher that forwards every event to the frontend and
// records completions when the log is open
func (a *App) newEngine() *watcher.Engine {
	var emitter watcher.Emitter = watcher.EmitterFunc(func(event string, payload any) {
		wailsrt.EventsEmit(a.ctx, event, payload)
	})
	if a.completions != nil {
		emitter = a.completions.Recording(emitter, nil)
	}

	s := a.currentSettings()
	return watcher.New(emitter, watcher.Options{
		Root:              a.layout.ClaudeDir,
		Debounce:          s.Debounce(),
		PollInterval:      s.PollInterval(),
		CompletionTimeout: s.CompletionTimeout(),
	})
}
