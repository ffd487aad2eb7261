package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantErr   bool
		wantKind  RecordKind
		wantRole  string
		wantText  string
		wantTS    string
		wantModel string
		wantIn    uint64
		wantOut   uint64
	}{
		{
			name:     "user string content",
			line:     `{"type":"user","timestamp":"2025-01-01T00:00:00Z","message":{"role":"user","content":"  hello world  "}}`,
			wantKind: RecordKindUser,
			wantRole: "user",
			wantText: "hello world",
			wantTS:   "2025-01-01T00:00:00Z",
		},
		{
			name:      "assistant parts with usage",
			line:      `{"type":"assistant","timestamp":"t1","message":{"role":"assistant","model":"claude-x","content":[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"answer"}],"usage":{"input_tokens":12,"output_tokens":34}}}`,
			wantKind:  RecordKindAssistant,
			wantRole:  "assistant",
			wantText:  "answer",
			wantTS:    "t1",
			wantModel: "claude-x",
			wantIn:    12,
			wantOut:   34,
		},
		{
			name:     "role falls back to type",
			line:     `{"type":"user","message":{"content":"hi"}}`,
			wantKind: RecordKindUser,
			wantRole: "user",
			wantText: "hi",
		},
		{
			name:     "other kinds decode but are not messages",
			line:     `{"type":"summary","summary":"stuff"}`,
			wantKind: RecordKindOther,
			wantRole: "summary",
		},
		{
			name:     "wrongly typed fields degrade to zero values",
			line:     `{"type":"user","timestamp":12345,"message":{"role":7,"content":{"a":1},"usage":{"input_tokens":"x"}}}`,
			wantKind: RecordKindUser,
			wantRole: "user",
		},
		{
			name:    "malformed json",
			line:    `{"type":"user",`,
			wantErr: true,
		},
		{
			name:    "not an object",
			line:    `["user"]`,
			wantErr: true,
		},
		{
			name:    "blank",
			line:    "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, rec.Kind)
			assert.Equal(t, tt.wantRole, rec.Role)
			assert.Equal(t, tt.wantText, rec.Preview())
			assert.Equal(t, tt.wantTS, rec.Timestamp)
			assert.Equal(t, tt.wantModel, rec.Model)
			assert.Equal(t, tt.wantIn, rec.Usage.InputTokens)
			assert.Equal(t, tt.wantOut, rec.Usage.OutputTokens)
		})
	}
}

func TestIsMessage(t *testing.T) {
	for _, typ := range []string{"user", "assistant"} {
		rec, err := DecodeLine(`{"type":"` + typ + `"}`)
		require.NoError(t, err)
		assert.True(t, rec.IsMessage(), typ)
	}
	for _, typ := range []string{"system", "summary", "file-history-snapshot", ""} {
		rec, err := DecodeLine(`{"type":"` + typ + `"}`)
		require.NoError(t, err)
		assert.False(t, rec.IsMessage(), typ)
	}
}

func TestTruncatePreview(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := TruncatePreview(long, PreviewLimit)
	assert.Equal(t, strings.Repeat("a", 200)+Ellipsis, got)

	exact := strings.Repeat("b", 200)
	assert.Equal(t, exact, TruncatePreview(exact, PreviewLimit))

	short := "short"
	assert.Equal(t, short, TruncatePreview(short, PreviewLimit))
}

func TestTruncatePreviewCountsCharacters(t *testing.T) {
	// 200 multi-byte characters are more than 200 bytes but must not be cut.
	wide := strings.Repeat("é", 200)
	assert.Equal(t, wide, TruncatePreview(wide, PreviewLimit))

	wider := strings.Repeat("日", 201)
	got := TruncatePreview(wider, PreviewLimit)
	assert.Equal(t, strings.Repeat("日", 200)+Ellipsis, got)
}

func TestContentPreview(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{"plain string is trimmed", TextContent("\n  padded \t"), "padded"},
		{"first text part wins", PartsContent(
			ContentPart{Type: "tool_use"},
			ContentPart{Type: "text", Text: "first"},
			ContentPart{Type: "text", Text: "second"},
		), "first"},
		{"no text part", PartsContent(ContentPart{Type: "image"}), ""},
		{"empty parts", PartsContent(), ""},
		{"absent", Content{}, ""},
		{"long text part is truncated", PartsContent(ContentPart{Type: "text", Text: strings.Repeat("x", 250)}), strings.Repeat("x", 200) + Ellipsis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.content.Preview())
		})
	}
}

func TestContentUnmarshalSkipsTextPartsWithoutText(t *testing.T) {
	rec, err := DecodeLine(`{"type":"user","message":{"content":[{"type":"text"},"stray",{"type":"text","text":"real"}]}}`)
	require.NoError(t, err)
	assert.Equal(t, ContentParts, rec.Content.Shape)
	require.Len(t, rec.Content.Parts, 1)
	assert.Equal(t, "real", rec.Preview())
}

func TestContentMarshalRoundTripsShape(t *testing.T) {
	b, err := TextContent("hi").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(b))

	b, err = PartsContent(ContentPart{Type: "text", Text: "x"}).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"text","text":"x"}]`, string(b))
}
