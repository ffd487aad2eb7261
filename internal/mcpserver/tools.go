package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names
const (
	ToolListConversations   = "list_conversations"
	ToolReadConversation    = "read_conversation"
	ToolSearchConversations = "search_conversations"
	ToolListActiveSessions  = "list_active_sessions"
	ToolTailSession         = "tail_session"
)

// CreateListConversationsTool creates the list_conversations tool definition
func CreateListConversationsTool() mcp.Tool {
	return mcp.NewTool(ToolListConversations,
		mcp.WithDescription("List recorded Claude Code conversations, most recent first. Each entry has the session id, encoded project directory, first user message preview, message count and file path."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("project",
			mcp.Description("Encoded project directory name to restrict the listing to (e.g. '-Users-me-code-app')"),
		),
	)
}

// CreateReadConversationTool creates the read_conversation tool definition
func CreateReadConversationTool() mcp.Tool {
	return mcp.NewTool(ToolReadConversation,
		mcp.WithDescription("Read the user and assistant messages of one conversation in order. Message text is truncated to a preview."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the session .jsonl file, as returned by list_conversations"),
		),
	)
}

// CreateSearchConversationsTool creates the search_conversations tool definition
func CreateSearchConversationsTool() mcp.Tool {
	return mcp.NewTool(ToolSearchConversations,
		mcp.WithDescription("Case-insensitive substring search across every conversation. Returns matching messages with their session path."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of hits to return (default 50)"),
		),
	)
}

// CreateListActiveSessionsTool creates the list_active_sessions tool definition
func CreateListActiveSessionsTool() mcp.Tool {
	return mcp.NewTool(ToolListActiveSessions,
		mcp.WithDescription("List sessions whose log file was written recently, most recent first, with the last message preview and model."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("threshold_seconds",
			mcp.Description("How recently the file must have been modified (default 300)"),
		),
	)
}

// CreateTailSessionTool creates the tail_session tool definition
func CreateTailSessionTool() mcp.Tool {
	return mcp.NewTool(ToolTailSession,
		mcp.WithDescription("Return the messages appended to a session after a line offset, plus the new total line count. Pass the previous total_lines as from_line to resume."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the session .jsonl file"),
		),
		mcp.WithNumber("from_line",
			mcp.Description("Number of non-blank lines already consumed (default 0)"),
		),
	)
}
