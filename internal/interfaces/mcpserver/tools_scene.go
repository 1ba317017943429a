package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getSceneInfoInput struct {
	IncludeHierarchy bool `json:"include_hierarchy,omitempty" jsonschema:"include the full object hierarchy"`
}

type getObjectInfoInput struct {
	ObjectName string `json:"object_name" jsonschema:"name of the object to inspect"`
}

type createObjectInput struct {
	ObjectType string    `json:"object_type" jsonschema:"primitive type: cube, sphere, cylinder, cone, plane, torus, null, camera or light"`
	Name       string    `json:"name" jsonschema:"name for the new object"`
	Position   []float64 `json:"position,omitempty" jsonschema:"position [x, y, z]"`
	Rotation   []float64 `json:"rotation,omitempty" jsonschema:"rotation [h, p, b] in degrees"`
	Scale      []float64 `json:"scale,omitempty" jsonschema:"scale [x, y, z]"`
}

type modifyObjectInput struct {
	ObjectName string         `json:"object_name" jsonschema:"name of the object to modify"`
	Position   []float64      `json:"position,omitempty" jsonschema:"new position [x, y, z]"`
	Rotation   []float64      `json:"rotation,omitempty" jsonschema:"new rotation [h, p, b] in degrees"`
	Scale      []float64      `json:"scale,omitempty" jsonschema:"new scale [x, y, z]"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"additional object parameters to set"`
}

type deleteObjectInput struct {
	ObjectName string `json:"object_name" jsonschema:"name of the object to delete"`
}

func (s *Server) addSceneTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_scene_info",
		Description: "Get information about the current Cinema 4D scene: objects, materials, frame and document name.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in getSceneInfoInput) (*mcp.CallToolResult, any, error) {
		return s.forward(ctx, "get_scene_info", map[string]any{
			"include_hierarchy": in.IncludeHierarchy,
		})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_object_info",
		Description: "Get a single object's transform, type and tags.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in getObjectInfoInput) (*mcp.CallToolResult, any, error) {
		return s.forward(ctx, "get_object_info", map[string]any{"name": in.ObjectName})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_object",
		Description: "Create a new object in the scene.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in createObjectInput) (*mcp.CallToolResult, any, error) {
		result, err := s.bridge.Send(ctx, "create_object", map[string]any{
			"object_type": in.ObjectType,
			"name":        in.Name,
			"position":    in.Position,
			"rotation":    in.Rotation,
			"scale":       in.Scale,
		})
		if err != nil {
			return nil, nil, err
		}
		return textResult(fmt.Sprintf("Created %s %q: %s", in.ObjectType, in.Name, prettyJSON(result))), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "modify_object",
		Description: "Change an existing object's transform or parameters.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in modifyObjectInput) (*mcp.CallToolResult, any, error) {
		return s.forward(ctx, "modify_object", map[string]any{
			"name":       in.ObjectName,
			"position":   in.Position,
			"rotation":   in.Rotation,
			"scale":      in.Scale,
			"properties": in.Properties,
		})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_object",
		Description: "Delete an object from the scene.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in deleteObjectInput) (*mcp.CallToolResult, any, error) {
		if _, err := s.bridge.Send(ctx, "delete_object", map[string]any{"name": in.ObjectName}); err != nil {
			return nil, nil, err
		}
		return textResult(fmt.Sprintf("Deleted %q", in.ObjectName)), nil, nil
	})
}
