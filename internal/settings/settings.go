package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	ConfigDir    = ".claudelens"
	SettingsFile = "settings.json"
)

// Settings holds all application settings
type Settings struct {
	ClaudeDir                string `json:"claudeDir"`                // archive root, default ~/.claude
	ActiveThresholdSeconds   int    `json:"activeThresholdSeconds"`   // recency window for active sessions
	SearchMaxResults         int    `json:"searchMaxResults"`         // default hit cap for search
	DebounceMillis           int    `json:"debounceMillis"`           // watcher coalescing window
	PollIntervalSeconds      int    `json:"pollIntervalSeconds"`      // watcher completion sweep cadence
	CompletionTimeoutSeconds int    `json:"completionTimeoutSeconds"` // quiet time before a session completes
	LogLevel                 string `json:"logLevel"`                 // zerolog level name
}

// Defaults returns the built-in settings. ClaudeDir is left empty and
// resolved against the home directory by the archive layout.
func Defaults() Settings {
	return Settings{
		ActiveThresholdSeconds:   300,
		SearchMaxResults:         50,
		DebounceMillis:           500,
		PollIntervalSeconds:      10,
		CompletionTimeoutSeconds: 60,
		LogLevel:                 "info",
	}
}

// WithDefaults fills every zero field from Defaults.
func (s Settings) WithDefaults() Settings {
	d := Defaults()
	if s.ActiveThresholdSeconds <= 0 {
		s.ActiveThresholdSeconds = d.ActiveThresholdSeconds
	}
	if s.SearchMaxResults <= 0 {
		s.SearchMaxResults = d.SearchMaxResults
	}
	if s.DebounceMillis <= 0 {
		s.DebounceMillis = d.DebounceMillis
	}
	if s.PollIntervalSeconds <= 0 {
		s.PollIntervalSeconds = d.PollIntervalSeconds
	}
	if s.CompletionTimeoutSeconds <= 0 {
		s.CompletionTimeoutSeconds = d.CompletionTimeoutSeconds
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	return s
}

// ActiveThreshold returns the active-session window as a duration.
func (s Settings) ActiveThreshold() time.Duration {
	return time.Duration(s.ActiveThresholdSeconds) * time.Second
}

// Debounce returns the watcher coalescing window.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// PollInterval returns the watcher sweep cadence.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

// CompletionTimeout returns the quiet time after which a session completes.
func (s Settings) CompletionTimeout() time.Duration {
	return time.Duration(s.CompletionTimeoutSeconds) * time.Second
}

// Manager handles all settings operations
type Manager struct {
	configPath string
	settings   Settings
	mu         sync.RWMutex
}

// DefaultConfigPath returns ~/.claudelens.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(homeDir, ConfigDir), nil
}

// NewManager creates a settings manager rooted at configPath, or at
// DefaultConfigPath when configPath is empty.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		var err error
		if configPath, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return nil, errors.Wrapf(err, "create config directory %s", configPath)
	}

	m := &Manager{
		configPath: configPath,
		settings:   Defaults(),
	}

	if err := m.readJSON(SettingsFile, &m.settings); err != nil {
		return nil, err
	}
	return m, nil
}

// GetConfigPath returns the path to the config directory
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetSettings returns current settings with defaults applied
func (m *Manager) GetSettings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.WithDefaults()
}

// SaveSettings saves settings to disk
func (m *Manager) SaveSettings(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = s
	return m.writeJSON(SettingsFile, s)
}

// writeJSON writes data as JSON to a file
func (m *Manager) writeJSON(filename string, data interface{}) error {
	return writeJSONFile(filepath.Join(m.configPath, filename), data, 0600)
}

// readJSON reads JSON from a file
func (m *Manager) readJSON(filename string, target interface{}) error {
	return readJSONFile(filepath.Join(m.configPath, filename), target)
}

func writeJSONFile(path string, data interface{}, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := os.WriteFile(path, jsonData, perm); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func readJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
