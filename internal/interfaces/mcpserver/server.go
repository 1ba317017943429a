// Package mcpserver exposes the Cinema 4D bridge as a Model Context
// Protocol tool server. Every tool forwards to the socket client; the
// server itself holds no scene state beyond the chat conversation.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/cinema4d-mcp/cli/internal/core/chat"
)

// Bridge is the command connection into Cinema 4D.
type Bridge interface {
	Send(ctx context.Context, command string, params map[string]any) (map[string]any, error)
	Ping(ctx context.Context) error
}

// Server wires the MCP tool set to a bridge and a chat manager.
type Server struct {
	bridge  Bridge
	chat    *chat.Manager
	version string
	log     zerolog.Logger
}

// New creates a server. The bridge connection is lazy; serving starts even
// when Cinema 4D is not yet running.
func New(bridge Bridge, chatMgr *chat.Manager, version string, log zerolog.Logger) *Server {
	return &Server{
		bridge:  bridge,
		chat:    chatMgr,
		version: version,
		log:     log,
	}
}

// Run serves MCP over the given transport until the context ends.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	if err := s.bridge.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cinema 4d not reachable yet; tools will retry on use")
	}

	srv := s.build()

	s.log.Info().Str("version", s.version).Msg("mcp server starting")
	defer s.log.Info().Msg("mcp server stopped")

	return srv.Run(ctx, transport)
}

func (s *Server) build() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "cinema4d-mcp",
		Title:   "Cinema 4D MCP Bridge",
		Version: s.version,
	}, nil)

	s.addSceneTools(srv)
	s.addMaterialTools(srv)
	s.addRenderTools(srv)
	s.addAnimationTools(srv)
	s.addChatTools(srv)
	s.addUtilityTools(srv)
	s.addWorkflowPrompt(srv)

	return srv
}

// forward sends one command and renders its result as indented JSON text,
// the shape almost every tool answers with.
func (s *Server) forward(ctx context.Context, command string, params map[string]any) (*mcp.CallToolResult, any, error) {
	result, err := s.bridge.Send(ctx, command, params)
	if err != nil {
		return nil, nil, err
	}
	return textResult(prettyJSON(result)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
