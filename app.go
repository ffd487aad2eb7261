package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	wailsrt "github.com/wailsapp/wails/v2/pkg/runtime"

	"claudelens/internal/archive"
	"claudelens/internal/completions"
	"claudelens/internal/history"
	"claudelens/internal/logging"
	"claudelens/internal/sessions"
	"claudelens/internal/settings"
	"claudelens/internal/watcher"
)

// App struct holds the application state
type App struct {
	ctx         context.Context
	configDir   string
	settings    *settings.Manager
	names       *settings.SessionManager
	completions *completions.Store

	mu      sync.RWMutex
	layout  archive.Layout
	store   *history.Store
	tracker *sessions.Tracker
	engine  *watcher.Engine
}

// NewApp creates a new App application struct
func NewApp(configDir string) *App {
	return &App{configDir: configDir}
}

// =============================================================================
// STARTUP - Single Initialization Chain
// =============================================================================

// emitLoadingStatus emits a loading status message to the frontend splash screen
func (a *App) emitLoadingStatus(status string) {
	wailsrt.EventsEmit(a.ctx, "loading:status", map[string]any{
		"status": status,
	})
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	// Step 1: Load persisted state (settings, conversation titles)
	a.emitLoadingStatus("Initializing settings...")
	a.loadPersistedState()

	// Step 2: Open the archive with the configured Claude directory
	a.emitLoadingStatus("Opening archive...")
	a.applySettings(a.currentSettings())

	// Step 3: Open the completion log
	a.emitLoadingStatus("Opening completion log...")
	a.openCompletions()

	// Step 4: Start watching the archive
	a.emitLoadingStatus("Setting up file watcher...")
	a.StartWatching()

	wailsrt.LogInfo(ctx, fmt.Sprintf("ClaudeLens initialized. Archive: %s", a.archiveLayout().ClaudeDir))
}

// loadPersistedState loads settings and conversation titles from disk
func (a *App) loadPersistedState() {
	sm, err := settings.NewManager(a.configDir)
	if err != nil {
		wailsrt.LogError(a.ctx, fmt.Sprintf("Failed to initialize settings: %v", err))
		return
	}
	a.settings = sm
	a.configDir = sm.GetConfigPath()

	names, err := settings.NewSessionManager(sm.GetConfigPath())
	if err != nil {
		wailsrt.LogWarning(a.ctx, fmt.Sprintf("Failed to load conversation names: %v", err))
		return
	}
	a.names = names
}

func (a *App) currentSettings() settings.Settings {
	if a.settings == nil {
		return settings.Defaults()
	}
	return a.settings.GetSettings()
}

// applySettings rebuilds the archive readers for s. A running watcher keeps
// its original root until restart.
func (a *App) applySettings(s settings.Settings) {
	logging.Setup(s.LogLevel, false, nil)

	layout := archive.NewLayout(s.ClaudeDir)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.layout = layout
	a.store = history.NewStore(layout)
	a.tracker = sessions.NewTracker(layout)
}

// openCompletions opens the SQLite completion log in the config directory
func (a *App) openCompletions() {
	if a.configDir == "" {
		return
	}
	store, err := completions.Open(filepath.Join(a.configDir, completions.DBFile))
	if err != nil {
		wailsrt.LogWarning(a.ctx, fmt.Sprintf("Failed to open completion log: %v", err))
		return
	}
	a.completions = store
}

func (a *App) archiveLayout() archive.Layout {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.layout
}

func (a *App) historyStore() *history.Store {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.store
}

func (a *App) sessionTracker() *sessions.Tracker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker
}

// shutdown is called when the app is closing
func (a *App) shutdown(ctx context.Context) {
	// The watcher stops with the app context; close the completion log
	if a.completions != nil {
		if err := a.completions.Close(); err != nil {
			wailsrt.LogWarning(ctx, fmt.Sprintf("Failed to close completion log: %v", err))
		}
	}
}
