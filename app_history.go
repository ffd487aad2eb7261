package main

import (
	"path/filepath"

	"github.com/pkg/errors"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// =============================================================================
// CONVERSATION METHODS (Bound to frontend)
// =============================================================================

// ListConversations returns conversation summaries, most recent first,
// with any user-assigned titles filled in
func (a *App) ListConversations(projectFilter string) ([]types.ConversationSummary, error) {
	conversations, err := a.historyStore().ListConversations(projectFilter)
	if err != nil {
		return nil, err
	}
	if a.names != nil {
		for i := range conversations {
			c := &conversations[i]
			c.Name = a.names.GetSessionName(c.Project, c.SessionID)
		}
	}
	return conversations, nil
}

// ReadConversation returns the messages of one session file
func (a *App) ReadConversation(path string) ([]types.ConversationMessage, error) {
	clean, err := a.archiveLayout().ValidateSessionPath(path)
	if err != nil {
		return nil, err
	}
	return a.historyStore().ReadConversation(clean)
}

// SearchConversations searches every conversation; maxResults 0 uses the
// configured default
func (a *App) SearchConversations(query string, maxResults int) ([]types.SearchHit, error) {
	if maxResults <= 0 {
		maxResults = a.currentSettings().SearchMaxResults
	}
	return a.historyStore().SearchConversations(query, maxResults)
}

// DeleteConversation removes a session file, its side-car directory and its title
func (a *App) DeleteConversation(path string) error {
	clean, err := a.archiveLayout().ValidateSessionPath(path)
	if err != nil {
		return err
	}
	if err := a.historyStore().DeleteConversation(clean); err != nil {
		return err
	}
	if a.names != nil {
		project := filepath.Base(filepath.Dir(clean))
		return a.names.SetSessionName(project, archive.SessionIDFromPath(clean), "")
	}
	return nil
}

// ClearAllConversations deletes every conversation in the matched projects
func (a *App) ClearAllConversations(projectFilter string) (int, error) {
	return a.historyStore().ClearAllConversations(projectFilter)
}

// SetConversationName sets or clears (empty name) the title of a conversation
func (a *App) SetConversationName(project, sessionID, name string) error {
	if a.names == nil {
		return errors.New("conversation names not initialized")
	}
	return a.names.SetSessionName(project, sessionID, name)
}

// ListAttachments lists the side-car files of a session
func (a *App) ListAttachments(path string) ([]types.Attachment, error) {
	clean, err := a.archiveLayout().ValidateSessionPath(path)
	if err != nil {
		return nil, err
	}
	return a.historyStore().Attachments(clean)
}

// =============================================================================
// PROMPT HISTORY METHODS (Bound to frontend)
// =============================================================================

// ReadCommandHistory returns prompt history entries, newest first
func (a *App) ReadCommandHistory(limit int) ([]types.HistoryEntry, error) {
	return a.historyStore().ReadCommandHistory(limit)
}

// DeleteCommandEntry removes prompt history entries with the given timestamp
func (a *App) DeleteCommandEntry(timestamp uint64) error {
	return a.historyStore().DeleteCommandEntry(timestamp)
}

// ClearCommandHistory empties the prompt history
func (a *App) ClearCommandHistory() error {
	return a.historyStore().ClearCommandHistory()
}
