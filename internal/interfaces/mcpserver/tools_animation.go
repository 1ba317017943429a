package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type setAnimationFrameInput struct {
	Frame int `json:"frame" jsonschema:"frame number to jump to"`
}

type createKeyframeInput struct {
	ObjectName string    `json:"object_name" jsonschema:"object to animate"`
	Frame      int       `json:"frame" jsonschema:"frame number for the keyframe"`
	Property   string    `json:"property,omitempty" jsonschema:"position, rotation or scale, default position"`
	Value      []float64 `json:"value" jsonschema:"XYZ value at the keyframe"`
}

func (s *Server) addAnimationTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_animation_frame",
		Description: "Move the timeline to a specific frame.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in setAnimationFrameInput) (*mcp.CallToolResult, any, error) {
		if _, err := s.bridge.Send(ctx, "set_animation_frame", map[string]any{
			"frame": in.Frame,
		}); err != nil {
			return nil, nil, err
		}
		return textResult(fmt.Sprintf("Timeline set to frame %d", in.Frame)), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_keyframe",
		Description: "Create a keyframe for an object property at a given frame.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in createKeyframeInput) (*mcp.CallToolResult, any, error) {
		property := in.Property
		if property == "" {
			property = "position"
		}
		return s.forward(ctx, "create_keyframe", map[string]any{
			"object_name": in.ObjectName,
			"frame":       in.Frame,
			"property":    property,
			"value":       in.Value,
		})
	})
}
