package main

import (
	"github.com/pkg/errors"

	"claudelens/internal/settings"
)

// =============================================================================
// SETTINGS METHODS (Bound to frontend)
// =============================================================================

// GetSettings returns current application settings
func (a *App) GetSettings() settings.Settings {
	return a.currentSettings()
}

// SaveSettings saves application settings and applies runtime changes
func (a *App) SaveSettings(s settings.Settings) error {
	if a.settings == nil {
		return errors.New("settings manager not initialized")
	}

	// Save to disk
	if err := a.settings.SaveSettings(s); err != nil {
		return err
	}

	// Apply runtime changes: log level and archive location
	a.applySettings(a.settings.GetSettings())
	return nil
}

// GetConfigPath returns the path to the config directory (~/.claudelens)
func (a *App) GetConfigPath() string {
	if a.settings == nil {
		return ""
	}
	return a.settings.GetConfigPath()
}
