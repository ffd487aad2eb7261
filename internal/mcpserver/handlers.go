package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"

	"claudelens/internal/archive"
	"claudelens/internal/sessions"
)

// handleListConversations handles the list_conversations tool
func (s *MCPService) handleListConversations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")

	conversations, err := s.cfg.Conversations.ListConversations(project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(conversations)
}

// handleReadConversation handles the read_conversation tool
func (s *MCPService) handleReadConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.sessionPath(req)
	if errResult != nil {
		return errResult, nil
	}

	messages, err := s.cfg.Conversations.ReadConversation(path)
	if err != nil {
		return mcp.NewToolResultError(describe(err)), nil
	}
	return jsonResult(messages)
}

// handleSearchConversations handles the search_conversations tool
func (s *MCPService) handleSearchConversations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := req.GetInt("max_results", 0)
	if maxResults <= 0 {
		maxResults = s.cfg.SearchMaxResults
	}

	hits, err := s.cfg.Conversations.SearchConversations(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(hits)
}

// handleListActiveSessions handles the list_active_sessions tool
func (s *MCPService) handleListActiveSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threshold := time.Duration(req.GetInt("threshold_seconds", 0)) * time.Second
	if threshold <= 0 {
		threshold = s.cfg.ActiveThreshold
	}

	active, err := s.cfg.Sessions.ListActiveSessions(threshold)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing active sessions failed: %v", err)), nil
	}
	return jsonResult(active)
}

// handleTailSession handles the tail_session tool
func (s *MCPService) handleTailSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.sessionPath(req)
	if errResult != nil {
		return errResult, nil
	}

	fromLine := req.GetInt("from_line", 0)
	if fromLine < 0 {
		return mcp.NewToolResultError("from_line must not be negative"), nil
	}

	result, err := sessions.TailSession(path, fromLine)
	if err != nil {
		return mcp.NewToolResultError(describe(err)), nil
	}
	return jsonResult(result)
}

// sessionPath reads and validates the path argument.
func (s *MCPService) sessionPath(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	raw, err := req.RequireString("path")
	if err != nil || raw == "" {
		return "", mcp.NewToolResultError("path is required")
	}
	path, err := s.cfg.Layout.ValidateSessionPath(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return path, nil
}

func describe(err error) string {
	if errors.Is(err, archive.ErrNotFound) {
		return err.Error()
	}
	return fmt.Sprintf("read failed: %v", err)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}
