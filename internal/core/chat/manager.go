// Package chat keeps the conversation state for the scene chat tools.
package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single chat message.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Summary describes the current conversation state.
type Summary struct {
	SessionID         string   `json:"session_id"`
	MessageCount      int      `json:"message_count"`
	UserMessages      int      `json:"user_messages"`
	AssistantMessages int      `json:"assistant_messages"`
	ContextKeys       []string `json:"context_keys"`
}

// DefaultMaxHistory bounds the retained conversation length.
const DefaultMaxHistory = 100

// Manager holds a bounded chat history plus a free-form context map. It is
// safe for concurrent use; the MCP server may run tool calls in parallel.
type Manager struct {
	mu         sync.Mutex
	sessionID  string
	history    []Message
	context    map[string]any
	maxHistory int
}

// NewManager creates a manager with a fresh session ID.
func NewManager() *Manager {
	return NewManagerWithLimit(DefaultMaxHistory)
}

// NewManagerWithLimit creates a manager retaining at most maxHistory
// messages. Non-positive limits fall back to the default.
func NewManagerWithLimit(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		sessionID:  ulid.Make().String(),
		context:    map[string]any{},
		maxHistory: maxHistory,
	}
}

// SessionID returns the current session identifier.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Add appends a message and returns it. The oldest messages are discarded
// once the history exceeds the limit.
func (m *Manager) Add(role Role, content string, metadata map[string]any) Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
	m.history = append(m.history, msg)

	if len(m.history) > m.maxHistory {
		m.history = append([]Message(nil), m.history[len(m.history)-m.maxHistory:]...)
	}

	return msg
}

// Messages returns up to limit most recent messages, optionally filtered by
// role. A zero limit means all.
func (m *Manager) Messages(limit int, roleFilter Role) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.history
	if roleFilter != "" {
		filtered := make([]Message, 0, len(msgs))
		for _, msg := range msgs {
			if msg.Role == roleFilter {
				filtered = append(filtered, msg)
			}
		}
		msgs = filtered
	}

	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// History returns the recent conversation in the wire shape the plugin's
// process_chat command expects.
func (m *Manager) History(limit int) []map[string]any {
	msgs := m.Messages(limit, "")
	out := make([]map[string]any, 0, len(msgs))
	for _, msg := range msgs {
		entry := map[string]any{
			"role":      string(msg.Role),
			"content":   msg.Content,
			"timestamp": msg.Timestamp.Format(time.RFC3339),
		}
		if len(msg.Metadata) > 0 {
			entry["metadata"] = msg.Metadata
		}
		out = append(out, entry)
	}
	return out
}

// SetContext stores a context value.
func (m *Manager) SetContext(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.context[key] = value
}

// Context returns a copy of the context map.
func (m *Manager) Context() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]any, len(m.context))
	for k, v := range m.context {
		out[k] = v
	}
	return out
}

// Summary reports counts for the current session.
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		SessionID:    m.sessionID,
		MessageCount: len(m.history),
		ContextKeys:  make([]string, 0, len(m.context)),
	}
	for _, msg := range m.history {
		switch msg.Role {
		case RoleUser:
			s.UserMessages++
		case RoleAssistant:
			s.AssistantMessages++
		}
	}
	for k := range m.context {
		s.ContextKeys = append(s.ContextKeys, k)
	}
	return s
}

// Reset clears history and context and starts a new session.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	m.context = map[string]any{}
	m.sessionID = ulid.Make().String()
}

type exportDocument struct {
	SessionID string         `json:"session_id"`
	Messages  []Message      `json:"messages"`
	Context   map[string]any `json:"context"`
}

// Export writes the conversation to a JSON file.
func (m *Manager) Export(path string) error {
	m.mu.Lock()
	doc := exportDocument{
		SessionID: m.sessionID,
		Messages:  append([]Message(nil), m.history...),
		Context:   m.context,
	}
	m.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Import replaces the conversation with one previously exported.
func (m *Manager) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse chat export %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.SessionID != "" {
		m.sessionID = doc.SessionID
	}
	m.history = doc.Messages
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	m.context = doc.Context
	if m.context == nil {
		m.context = map[string]any{}
	}
	return nil
}
