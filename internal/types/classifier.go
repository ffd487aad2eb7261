package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// LINE DECODER
// =============================================================================

// wireRecord mirrors the on-disk line loosely. Scalar fields are kept raw so a
// field of an unexpected JSON type degrades to its zero value instead of
// failing the whole line.
type wireRecord struct {
	Type      json.RawMessage `json:"type"`
	Timestamp json.RawMessage `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
}

type wireMessage struct {
	Role    json.RawMessage `json:"role"`
	Content Content         `json:"content"`
	Model   json.RawMessage `json:"model"`
	Usage   json.RawMessage `json:"usage"`
}

type wireUsage struct {
	InputTokens  json.RawMessage `json:"input_tokens"`
	OutputTokens json.RawMessage `json:"output_tokens"`
}

// DecodeLine parses one JSONL line into a LogRecord. An error means the line
// is not a JSON object; callers scanning a file skip such lines.
func DecodeLine(line string) (*LogRecord, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}
	if line[0] != '{' {
		return nil, fmt.Errorf("line is not a JSON object")
	}

	var wire wireRecord
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}

	rec := &LogRecord{
		Type:      rawString(wire.Type),
		Timestamp: rawString(wire.Timestamp),
	}
	switch rec.Type {
	case RecordTypeUser:
		rec.Kind = RecordKindUser
	case RecordTypeAssistant:
		rec.Kind = RecordKindAssistant
	default:
		rec.Kind = RecordKindOther
	}

	var msg wireMessage
	if len(wire.Message) > 0 && json.Unmarshal(wire.Message, &msg) == nil {
		rec.Role = rawString(msg.Role)
		rec.Content = msg.Content
		rec.Model = rawString(msg.Model)

		var usage wireUsage
		if len(msg.Usage) > 0 && json.Unmarshal(msg.Usage, &usage) == nil {
			rec.Usage.InputTokens = rawUint(usage.InputTokens)
			rec.Usage.OutputTokens = rawUint(usage.OutputTokens)
		}
	}
	if rec.Role == "" {
		rec.Role = rec.Type
	}

	return rec, nil
}

// rawString returns the value of a JSON string, or "" for any other JSON type.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// rawUint returns the value of a non-negative JSON integer, or 0.
func rawUint(raw json.RawMessage) uint64 {
	if len(raw) == 0 {
		return 0
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}
