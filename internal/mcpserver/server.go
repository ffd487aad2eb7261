// Package mcpserver exposes the archive queries as MCP tools over stdio so
// agents can browse past and live conversations.
package mcpserver

import (
	"context"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "ClaudeLens"
	ServerVersion = "0.1.0"
)

// Conversations is the transcript side of the query surface.
type Conversations interface {
	ListConversations(projectFilter string) ([]types.ConversationSummary, error)
	ReadConversation(path string) ([]types.ConversationMessage, error)
	SearchConversations(query string, maxResults int) ([]types.SearchHit, error)
}

// ActiveSessions is the live-session side of the query surface.
type ActiveSessions interface {
	ListActiveSessions(threshold time.Duration) ([]types.ActiveSession, error)
}

// Config wires the service to its data sources.
type Config struct {
	Layout           archive.Layout
	Conversations    Conversations
	Sessions         ActiveSessions
	SearchMaxResults int
	ActiveThreshold  time.Duration
}

// MCPService serves read-only archive tools
type MCPService struct {
	cfg    Config
	server *server.MCPServer
}

// NewMCPService creates the MCP server and registers every tool
func NewMCPService(cfg Config) *MCPService {
	s := &MCPService{cfg: cfg}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	mcpServer.AddTool(CreateListConversationsTool(), s.handleListConversations)
	mcpServer.AddTool(CreateReadConversationTool(), s.handleReadConversation)
	mcpServer.AddTool(CreateSearchConversationsTool(), s.handleSearchConversations)
	mcpServer.AddTool(CreateListActiveSessionsTool(), s.handleListActiveSessions)
	mcpServer.AddTool(CreateTailSessionTool(), s.handleTailSession)

	s.server = mcpServer
	return s
}

// Server returns the underlying MCP server
func (s *MCPService) Server() *server.MCPServer {
	return s.server
}

// Serve speaks MCP over the given streams until ctx is cancelled or in is
// closed.
func (s *MCPService) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.server)
	log.Info().Str("server", ServerName).Msg("serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
