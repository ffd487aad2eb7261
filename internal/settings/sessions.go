package settings

import (
	"path/filepath"
	"sync"
)

const ConversationNamesFile = "conversation-names.json"

// ConversationNames maps project directory names to session ID -> title mappings
// Example: {"-Users-foo-project": {"session-123": "Fix auth bug"}}
type ConversationNames map[string]map[string]string

// SessionManager handles user-assigned conversation titles
type SessionManager struct {
	configPath string
	names      ConversationNames
	mu         sync.RWMutex
}

// NewSessionManager creates a new session manager
func NewSessionManager(configPath string) (*SessionManager, error) {
	sm := &SessionManager{
		configPath: configPath,
		names:      make(ConversationNames),
	}

	if err := readJSONFile(sm.path(), &sm.names); err != nil {
		return nil, err
	}
	if sm.names == nil {
		sm.names = make(ConversationNames)
	}
	return sm, nil
}

// GetSessionName returns the custom name for a session, or empty string if not set
func (sm *SessionManager) GetSessionName(project, sessionID string) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if projectNames, ok := sm.names[project]; ok {
		return projectNames[sessionID]
	}
	return ""
}

// SetSessionName sets a custom name for a session. An empty name removes it.
func (sm *SessionManager) SetSessionName(project, sessionID, name string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if name == "" {
		if _, ok := sm.names[project][sessionID]; !ok {
			return nil
		}
		delete(sm.names[project], sessionID)
		// Clean up empty project entries
		if len(sm.names[project]) == 0 {
			delete(sm.names, project)
		}
	} else {
		if sm.names[project] == nil {
			sm.names[project] = make(map[string]string)
		}
		sm.names[project][sessionID] = name
	}

	return sm.save()
}

// GetAllSessionNames returns all session names for a project
func (sm *SessionManager) GetAllSessionNames(project string) map[string]string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make(map[string]string)
	for k, v := range sm.names[project] {
		result[k] = v
	}
	return result
}

func (sm *SessionManager) path() string {
	return filepath.Join(sm.configPath, ConversationNamesFile)
}

// save writes session names to disk
func (sm *SessionManager) save() error {
	return writeJSONFile(sm.path(), sm.names, 0644)
}
