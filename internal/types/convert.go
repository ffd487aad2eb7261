package types

import "strings"

// =============================================================================
// PREVIEW EXTRACTION
// =============================================================================

// PreviewLimit is the maximum preview length in characters (runes).
const PreviewLimit = 200

// Ellipsis is appended to previews that were cut at PreviewLimit.
const Ellipsis = "..."

// TruncatePreview cuts s to max characters, appending Ellipsis if anything
// was removed.
func TruncatePreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// Preview extracts the display text of the content. A plain string is
// trimmed and truncated; for parts, the first part of type "text" is used.
// Returns "" when there is no text.
func (c Content) Preview() string {
	switch c.Shape {
	case ContentText:
		return TruncatePreview(strings.TrimSpace(c.Text), PreviewLimit)
	case ContentParts:
		for _, part := range c.Parts {
			if part.Type == "text" {
				return TruncatePreview(strings.TrimSpace(part.Text), PreviewLimit)
			}
		}
	}
	return ""
}
