package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cinema4d-mcp/cli/internal/core/chat"
)

const chatHistoryWindow = 10

func roleLabel(r chat.Role) string {
	if r == "" {
		return "?"
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

type sendChatMessageInput struct {
	Message             string `json:"message" jsonschema:"the chat message to send"`
	IncludeSceneContext *bool  `json:"include_scene_context,omitempty" jsonschema:"attach current scene information, default true"`
}

type getChatHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of recent messages, default 20"`
}

func (s *Server) addChatTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "send_chat_message",
		Description: "Send a conversational message about the scene and get a context-aware reply.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in sendChatMessageInput) (*mcp.CallToolResult, any, error) {
		includeContext := in.IncludeSceneContext == nil || *in.IncludeSceneContext

		s.chat.Add(chat.RoleUser, in.Message, nil)

		result, err := s.bridge.Send(ctx, "process_chat", map[string]any{
			"message":               in.Message,
			"include_scene_context": includeContext,
			"history":               s.chat.History(chatHistoryWindow),
		})
		if err != nil {
			return nil, nil, err
		}

		response, _ := result["response"].(string)
		contextInfo, _ := result["context_info"].(map[string]any)
		s.chat.Add(chat.RoleAssistant, response, contextInfo)

		var b strings.Builder
		b.WriteString(response)
		if includeContext && len(contextInfo) > 0 {
			b.WriteString("\n\n[Scene Context]\n")
			if count, ok := contextInfo["object_count"]; ok {
				fmt.Fprintf(&b, "Objects in scene: %v\n", count)
			}
			if selected, ok := contextInfo["selected_objects"].([]any); ok && len(selected) > 0 {
				names := make([]string, len(selected))
				for i, sel := range selected {
					names[i] = fmt.Sprintf("%v", sel)
				}
				fmt.Fprintf(&b, "Selected: %s\n", strings.Join(names, ", "))
			}
		}
		return textResult(b.String()), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_chat_history",
		Description: "Show the recent chat conversation.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in getChatHistoryInput) (*mcp.CallToolResult, any, error) {
		limit := in.Limit
		if limit <= 0 {
			limit = 20
		}

		msgs := s.chat.Messages(limit, "")
		if len(msgs) == 0 {
			return textResult("No chat history available."), nil, nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Chat History (showing %d messages):\n\n", len(msgs))
		for _, msg := range msgs {
			fmt.Fprintf(&b, "[%s] %s: %s\n\n",
				msg.Timestamp.Format("15:04:05"), roleLabel(msg.Role), msg.Content)
		}
		return textResult(b.String()), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "clear_chat_history",
		Description: "Clear the chat history and start a new conversation session.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, any, error) {
		s.chat.Reset()
		return textResult("Chat history cleared. Starting new conversation session."), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_chat_status",
		Description: "Check whether scene chat is available and summarize the current session.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, any, error) {
		result, err := s.bridge.Send(ctx, "get_chat_status", nil)
		if err != nil {
			return nil, nil, err
		}

		message, _ := result["message"].(string)
		enabled, _ := result["enabled"].(bool)

		var b strings.Builder
		b.WriteString(message)
		if enabled {
			summary := s.chat.Summary()
			fmt.Fprintf(&b, "\n\nCurrent session: %s", summary.SessionID)
			fmt.Fprintf(&b, "\nMessages: %d (%d user, %d assistant)",
				summary.MessageCount, summary.UserMessages, summary.AssistantMessages)
		}
		return textResult(b.String()), nil, nil
	})
}
