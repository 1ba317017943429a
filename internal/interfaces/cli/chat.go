package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cinema4d-mcp/cli/internal/core/chat"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/bridge"
	"github.com/cinema4d-mcp/cli/internal/infrastructure/logging"
)

// NewChatCommand creates the chat command.
func NewChatCommand(container *CLIContainer) *cobra.Command {
	var (
		transcript string
		resume     string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Cinema 4D about the current scene",
		Long: `Launch an interactive terminal chat session against the running
Cinema 4D plugin. The conversation keeps scene context, so you can ask
about objects, materials and animation state.

Requires Cinema 4D to be running with the MCP bridge plugin enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, container, transcript, resume)
		},
	}

	cmd.Flags().StringVar(&transcript, "transcript", "", "write the conversation to this JSON file on exit")
	cmd.Flags().StringVar(&resume, "resume", "", "resume a conversation from a transcript file")

	return cmd
}

func runChat(cmd *cobra.Command, container *CLIContainer, transcript, resume string) error {
	cfg := container.Config

	log, closer, err := logging.New(logging.Options{Debug: cfg.Debug})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	client := bridge.New(cfg.Host, cfg.Port, cfg.Timeout(), log)
	defer client.Close()

	if err := client.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("Cinema 4D is not reachable: %w\n\nStart Cinema 4D and enable the MCP bridge plugin, then try again", err)
	}

	manager := chat.NewManager()
	if resume != "" {
		if err := manager.Import(resume); err != nil {
			return fmt.Errorf("resume transcript: %w", err)
		}
	}

	model := newChatModel(client, manager)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}

	if transcript != "" {
		if err := manager.Export(transcript); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		fmt.Fprintf(container.Out, "Transcript saved to %s\n", transcript)
	}
	return nil
}

// chatHistoryWindow limits how much conversation travels with each request.
const chatHistoryWindow = 10

type chatLine struct {
	role    chat.Role
	content string
}

type replyMsg struct {
	response    string
	contextInfo map[string]any
}

type chatErrMsg struct {
	err error
}

// chatModel holds the state for the Bubble Tea chat session.
type chatModel struct {
	client  *bridge.Client
	manager *chat.Manager

	lines        []chatLine
	input        string
	waiting      bool
	err          error
	windowWidth  int
	windowHeight int
}

func newChatModel(client *bridge.Client, manager *chat.Manager) chatModel {
	m := chatModel{
		client:  client,
		manager: manager,
	}
	// A resumed transcript shows up in the view from the start.
	for _, msg := range manager.Messages(0, "") {
		m.lines = append(m.lines, chatLine{role: msg.Role, content: msg.Content})
	}
	return m
}

// Init implements the Bubble Tea init method
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			text := strings.TrimSpace(m.input)
			if text == "" || m.waiting {
				return m, nil
			}
			m.input = ""
			m.waiting = true
			m.err = nil
			m.lines = append(m.lines, chatLine{role: chat.RoleUser, content: text})
			m.manager.Add(chat.RoleUser, text, nil)
			return m, m.sendCmd(text)

		case tea.KeyBackspace:
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
			return m, nil

		case tea.KeyRunes, tea.KeySpace:
			if msg.Type == tea.KeySpace {
				m.input += " "
			} else {
				m.input += string(msg.Runes)
			}
			return m, nil
		}

	case replyMsg:
		m.waiting = false
		m.lines = append(m.lines, chatLine{role: chat.RoleAssistant, content: msg.response})
		m.manager.Add(chat.RoleAssistant, msg.response, msg.contextInfo)
		return m, nil

	case chatErrMsg:
		m.waiting = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// sendCmd forwards one message to the plugin off the UI goroutine.
func (m chatModel) sendCmd(text string) tea.Cmd {
	history := m.manager.History(chatHistoryWindow)
	return func() tea.Msg {
		result, err := m.client.Send(context.Background(), "process_chat", map[string]any{
			"message":               text,
			"include_scene_context": true,
			"history":               history,
		})
		if err != nil {
			return chatErrMsg{err: err}
		}
		response, _ := result["response"].(string)
		contextInfo, _ := result["context_info"].(map[string]any)
		return replyMsg{response: response, contextInfo: contextInfo}
	}
}

var (
	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// View implements the Bubble Tea view method
func (m chatModel) View() string {
	header := chatTitleStyle.Render("💬 Cinema 4D Chat")
	session := dimStyle.Render(fmt.Sprintf("Session: %s | esc to quit", m.manager.SessionID()))

	var body []string
	for _, line := range m.lines {
		label := userLabelStyle.Render("You")
		if line.role == chat.RoleAssistant {
			label = assistantLabelStyle.Render("Cinema 4D")
		}
		body = append(body, fmt.Sprintf("%s: %s", label, line.content))
	}
	if len(body) == 0 {
		body = append(body, dimStyle.Render("Ask anything about the scene."))
	}

	status := ""
	if m.waiting {
		status = dimStyle.Render("thinking...")
	}
	if m.err != nil {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + m.err.Error())
	}

	prompt := fmt.Sprintf("> %s█", m.input)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		session,
		"",
		strings.Join(body, "\n\n"),
		"",
		status,
		prompt,
	)
}
