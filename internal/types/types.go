// Package types provides shared type definitions for claudelens.
// These types are returned by the history and sessions packages and bound
// to the frontend as-is.
package types

// =============================================================================
// TRANSCRIPT STORE RESULTS
// =============================================================================

// ConversationSummary describes one session file.
type ConversationSummary struct {
	SessionID           string `json:"sessionId"`           // File name without extension
	Project             string `json:"project"`             // Encoded project directory name
	Name                string `json:"name,omitempty"`      // User-assigned title, if any
	FirstMessagePreview string `json:"firstMessagePreview"` // First user message, at most PreviewLimit chars
	Timestamp           string `json:"timestamp"`           // Timestamp of the first user message
	MessageCount        int    `json:"messageCount"`        // Qualifying user/assistant records
	FilePath            string `json:"filePath"`
}

// ConversationMessage is one displayable message of a transcript.
type ConversationMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	MessageType string `json:"messageType"` // user or assistant
}

// SearchHit is one matching line found by a search.
type SearchHit struct {
	SessionPath string `json:"sessionPath"`
	Project     string `json:"project"`
	MatchedLine string `json:"matchedLine"` // Preview of the record, not the raw line
	Timestamp   string `json:"timestamp"`
}

// Attachment is a file stored in a session's side-car directory.
type Attachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// HistoryEntry is one line of the prompt history file (history.jsonl).
type HistoryEntry struct {
	Display   string `json:"display"`
	Project   string `json:"project"`
	Timestamp uint64 `json:"timestamp"` // Unix ms
}

// =============================================================================
// LIVE SESSION RESULTS
// =============================================================================

// ActiveSession describes a session file written to recently.
type ActiveSession struct {
	SessionID          string `json:"sessionId"`
	Project            string `json:"project"` // Decoded project name
	FilePath           string `json:"filePath"`
	LastModified       int64  `json:"lastModified"` // Unix ms
	MessageCount       int    `json:"messageCount"`
	LastMessagePreview string `json:"lastMessagePreview"`
	Model              string `json:"model"`
}

// TailMessage is one message returned by a tail read.
type TailMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Model     string `json:"model"`
	TokensIn  uint64 `json:"tokensIn"`
	TokensOut uint64 `json:"tokensOut"`
}

// TailResult holds the messages after the requested offset and the number of
// non-blank lines seen, which is the offset for the next call.
type TailResult struct {
	Messages   []TailMessage `json:"messages"`
	TotalLines int           `json:"totalLines"`
}
