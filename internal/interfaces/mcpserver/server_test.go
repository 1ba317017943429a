package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinema4d-mcp/cli/internal/core/chat"
)

type bridgeCall struct {
	command string
	params  map[string]any
}

// fakeBridge records commands and answers from a canned result table.
type fakeBridge struct {
	mu      sync.Mutex
	calls   []bridgeCall
	results map[string]map[string]any
	errs    map[string]error
	pingErr error
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		results: make(map[string]map[string]any),
		errs:    make(map[string]error),
	}
}

func (f *fakeBridge) Send(ctx context.Context, command string, params map[string]any) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, bridgeCall{command: command, params: params})
	if err := f.errs[command]; err != nil {
		return nil, err
	}
	if result, ok := f.results[command]; ok {
		return result, nil
	}
	return map[string]any{}, nil
}

func (f *fakeBridge) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeBridge) lastCall(t *testing.T) bridgeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

// startSession connects an in-memory MCP client to a server backed by the
// given bridge and returns the client session.
func startSession(t *testing.T, bridge Bridge) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := New(bridge, chat.NewManager(), "test", zerolog.Nop())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	srv := s.build()
	go func() {
		_ = srv.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestGetSceneInfo_RendersBridgeResult(t *testing.T) {
	bridge := newFakeBridge()
	bridge.results["get_scene_info"] = map[string]any{
		"document_name": "untitled.c4d",
		"object_count":  3,
	}
	session := startSession(t, bridge)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_scene_info",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := callText(t, res)
	assert.Contains(t, text, "untitled.c4d")
	assert.Contains(t, text, "object_count")
	assert.Equal(t, "get_scene_info", bridge.lastCall(t).command)
}

func TestCreateObject_ForwardsTransform(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "create_object",
		Arguments: map[string]any{
			"object_type": "cube",
			"name":        "Box",
			"position":    []float64{0, 100, 0},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, callText(t, res), `Created cube "Box"`)

	call := bridge.lastCall(t)
	assert.Equal(t, "create_object", call.command)
	assert.Equal(t, "cube", call.params["object_type"])
	assert.Equal(t, "Box", call.params["name"])
}

func TestCreateMaterial_AppliesDefaults(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "create_material",
		Arguments: map[string]any{"name": "Steel"},
	})
	require.NoError(t, err)

	call := bridge.lastCall(t)
	assert.Equal(t, "create_material", call.command)
	assert.Equal(t, []float64{1.0, 1.0, 1.0}, call.params["color"])
	assert.Equal(t, 0.5, call.params["roughness"])
	assert.Equal(t, 1.0, call.params["opacity"])
}

func TestDeleteObject_BridgeErrorBecomesToolError(t *testing.T) {
	bridge := newFakeBridge()
	bridge.errs["delete_object"] = fmt.Errorf("object not found: Gone")
	session := startSession(t, bridge)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "delete_object",
		Arguments: map[string]any{"object_name": "Gone"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, callText(t, res), "object not found")
}

func TestSendChatMessage_RecordsBothSides(t *testing.T) {
	bridge := newFakeBridge()
	bridge.results["process_chat"] = map[string]any{
		"response": "The scene has one cube.",
		"context_info": map[string]any{
			"object_count": 1,
		},
	}

	chatMgr := chat.NewManager()
	s := New(bridge, chatMgr, "test", zerolog.Nop())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.build().Run(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "send_chat_message",
		Arguments: map[string]any{"message": "What is in the scene?"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := callText(t, res)
	assert.Contains(t, text, "The scene has one cube.")
	assert.Contains(t, text, "[Scene Context]")
	assert.Contains(t, text, "Objects in scene: 1")

	msgs := chatMgr.Messages(0, "")
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, chat.RoleAssistant, msgs[1].Role)

	call := bridge.lastCall(t)
	history, ok := call.params["history"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestExecutePython_ReturnsPluginResult(t *testing.T) {
	bridge := newFakeBridge()
	bridge.results["execute_code"] = map[string]any{
		"result": "42",
	}
	session := startSession(t, bridge)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "execute_python",
		Arguments: map[string]any{"code": "result = 6 * 7"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, "42", callText(t, res))
	assert.Equal(t, "execute_code", bridge.lastCall(t).command)
}

func TestExecutePython_NoOutput(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "execute_python",
		Arguments: map[string]any{"code": "pass"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Code executed with no output.", callText(t, res))
}

func TestExportScene_OmittedFormatDefaultsToC4D(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "export_scene",
		Arguments: map[string]any{"filepath": "/tmp/scene.c4d"},
	})
	require.NoError(t, err)

	call := bridge.lastCall(t)
	assert.Equal(t, "export_scene", call.command)
	assert.Equal(t, "c4d", call.params["format"], "the plugin rejects an empty format")
}

func TestExportScene_ExplicitFormatForwarded(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "export_scene",
		Arguments: map[string]any{"filepath": "/tmp/scene.fbx", "format": "fbx"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fbx", bridge.lastCall(t).params["format"])
}

func TestImportFile_MergeDefaultsTrue(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "import_file",
		Arguments: map[string]any{"filepath": "/assets/chair.fbx"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, bridge.lastCall(t).params["merge"])
}

func TestImportFile_MergeFalseOpensInstead(t *testing.T) {
	bridge := newFakeBridge()
	session := startSession(t, bridge)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "import_file",
		Arguments: map[string]any{"filepath": "/assets/set.c4d", "merge": false},
	})
	require.NoError(t, err)
	assert.Equal(t, false, bridge.lastCall(t).params["merge"])
}

func TestWorkflowPrompt(t *testing.T) {
	session := startSession(t, newFakeBridge())

	res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{
		Name: "cinema4d_workflow",
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "get_scene_info")
	assert.Contains(t, text.Text, "Best Practices")
}

func TestToolList_CoversAllCommands(t *testing.T) {
	session := startSession(t, newFakeBridge())

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}

	expected := []string{
		"get_scene_info", "get_object_info", "create_object", "modify_object", "delete_object",
		"create_material", "apply_material",
		"get_viewport_screenshot", "render_frame",
		"set_animation_frame", "create_keyframe",
		"send_chat_message", "get_chat_history", "clear_chat_history", "get_chat_status",
		"execute_python", "export_scene", "import_file",
	}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing tool %s", name)
	}
	assert.Len(t, names, len(expected))
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "User", roleLabel(chat.RoleUser))
	assert.Equal(t, "Assistant", roleLabel(chat.RoleAssistant))
	assert.Equal(t, "?", roleLabel(chat.Role("")))
}

func TestPrettyJSON_FallsBackOnUnmarshalable(t *testing.T) {
	out := prettyJSON(map[string]any{"fn": func() {}})
	assert.False(t, strings.HasPrefix(out, "{"))
}
