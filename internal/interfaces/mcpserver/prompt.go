package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const workflowGuidance = `When working with Cinema 4D through this MCP:

1. Scene Management:
   - Always check scene info first with get_scene_info
   - Use create_object to add primitives and null objects
   - modify_object for transforming and adjusting properties
   - delete_object to remove unwanted objects

2. Material Workflow:
   - Create materials with create_material using PBR properties
   - Apply materials to objects with apply_material
   - Cinema 4D supports a full PBR workflow (color, roughness, metallic, reflectance)

3. Visualization:
   - get_viewport_screenshot for quick previews
   - render_frame for quality renders
   - Supports Standard, Physical, and Redshift renderers

4. Animation:
   - Use set_animation_frame to navigate the timeline
   - create_keyframe to animate position, rotation and scale

5. Chat Feature:
   - Use send_chat_message for conversational interactions
   - Chat maintains context about your scene
   - Ask questions about objects, materials, and scene state

6. Import/Export:
   - export_scene supports multiple formats (C4D, FBX, OBJ, Alembic)
   - import_file to bring in external assets

7. Code Execution:
   - execute_python for complex operations
   - Has access to the full Cinema 4D Python API

Best Practices:
- Start with scene queries to understand current state
- Build scenes incrementally with primitives
- Apply materials after creating geometry
- Test viewport screenshots before final renders
- Use chat for guidance and scene analysis`

func (s *Server) addWorkflowPrompt(srv *mcp.Server) {
	srv.AddPrompt(&mcp.Prompt{
		Name:        "cinema4d_workflow",
		Description: "Best practices for working with Cinema 4D through this server.",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "Cinema 4D workflow guidance",
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: workflowGuidance},
				},
			},
		}, nil
	})
}
