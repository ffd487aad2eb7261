// Package types provides the record model for Claude Code transcript files.
// One line of a session JSONL file decodes into one LogRecord.
package types

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// RECORD KIND CONSTANTS
// =============================================================================

// JSONL record type discriminators. Only user and assistant records carry
// conversation content; everything else is decoded but ignored.
const (
	RecordTypeUser      = "user"
	RecordTypeAssistant = "assistant"
)

// RecordKind classifies a decoded record by its `type` discriminator.
type RecordKind int

const (
	RecordKindOther RecordKind = iota
	RecordKindUser
	RecordKindAssistant
)

// String returns the discriminator value for the kind.
func (k RecordKind) String() string {
	switch k {
	case RecordKindUser:
		return RecordTypeUser
	case RecordKindAssistant:
		return RecordTypeAssistant
	default:
		return "other"
	}
}

// =============================================================================
// LOG RECORD
// =============================================================================

// LogRecord is one decoded line of a session file.
type LogRecord struct {
	Kind      RecordKind
	Type      string // raw `type` value
	Role      string // message.role, falls back to Type
	Content   Content
	Timestamp string // opaque, never parsed
	Model     string
	Usage     TokenUsage
}

// TokenUsage holds the token counts reported on assistant records.
type TokenUsage struct {
	InputTokens  uint64 `json:"input_tokens"`
	OutputTokens uint64 `json:"output_tokens"`
}

// IsMessage returns true for user and assistant records.
func (r *LogRecord) IsMessage() bool {
	return r.Kind == RecordKindUser || r.Kind == RecordKindAssistant
}

// Preview returns the bounded preview text of the record's content.
func (r *LogRecord) Preview() string {
	return r.Content.Preview()
}

// =============================================================================
// CONTENT (tagged union)
// =============================================================================

// ContentShape tags which variant of Content is populated.
type ContentShape int

const (
	ContentAbsent ContentShape = iota // missing, null, or an unsupported JSON shape
	ContentText                       // plain string
	ContentParts                      // ordered sequence of typed parts
)

// ContentPart is one element of an array-shaped message content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Content is message.content resolved once at decode time into either a plain
// string or an ordered list of parts.
type Content struct {
	Shape ContentShape
	Text  string
	Parts []ContentPart
}

// TextContent builds a plain-string Content.
func TextContent(s string) Content {
	return Content{Shape: ContentText, Text: s}
}

// PartsContent builds an array-shaped Content.
func PartsContent(parts ...ContentPart) Content {
	return Content{Shape: ContentParts, Parts: parts}
}

// UnmarshalJSON resolves the content shape. It never fails: shapes other than
// string or array decode as ContentAbsent, and array elements that are not
// part objects are dropped.
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			c.Shape = ContentText
			c.Text = s
		}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		c.Shape = ContentParts
		c.Parts = make([]ContentPart, 0, len(raw))
		for _, item := range raw {
			var part struct {
				Type string          `json:"type"`
				Text json.RawMessage `json:"text"`
			}
			if err := json.Unmarshal(item, &part); err != nil {
				continue
			}
			text := rawString(part.Text)
			// A text part without a string `text` field carries nothing to show.
			if part.Type == "text" && text == "" && (len(part.Text) == 0 || part.Text[0] != '"') {
				continue
			}
			c.Parts = append(c.Parts, ContentPart{Type: part.Type, Text: text})
		}
	}
	return nil
}

// MarshalJSON writes the content back in its original shape.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Shape {
	case ContentText:
		return json.Marshal(c.Text)
	case ContentParts:
		return json.Marshal(c.Parts)
	default:
		return []byte("null"), nil
	}
}
