package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type createMaterialInput struct {
	Name        string    `json:"name" jsonschema:"name for the material"`
	Color       []float64 `json:"color,omitempty" jsonschema:"RGB color, each channel 0-1, default white"`
	Reflectance float64   `json:"reflectance,omitempty" jsonschema:"reflectance 0-1"`
	Roughness   float64   `json:"roughness,omitempty" jsonschema:"roughness 0-1, default 0.5"`
	Metallic    float64   `json:"metallic,omitempty" jsonschema:"metallic 0-1"`
	Opacity     float64   `json:"opacity,omitempty" jsonschema:"opacity 0-1, default 1"`
}

type applyMaterialInput struct {
	ObjectName   string `json:"object_name" jsonschema:"object to receive the material"`
	MaterialName string `json:"material_name" jsonschema:"material to apply"`
}

type screenshotInput struct {
	Width  int `json:"width,omitempty" jsonschema:"image width in pixels, default 1920"`
	Height int `json:"height,omitempty" jsonschema:"image height in pixels, default 1080"`
}

type renderFrameInput struct {
	Width    int    `json:"width,omitempty" jsonschema:"render width in pixels, default 1920"`
	Height   int    `json:"height,omitempty" jsonschema:"render height in pixels, default 1080"`
	Renderer string `json:"renderer,omitempty" jsonschema:"standard, physical or redshift"`
	Samples  int    `json:"samples,omitempty" jsonschema:"render samples, default 100"`
}

func (s *Server) addMaterialTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_material",
		Description: "Create a material with PBR-style properties.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in createMaterialInput) (*mcp.CallToolResult, any, error) {
		color := in.Color
		if color == nil {
			color = []float64{1.0, 1.0, 1.0}
		}
		roughness := in.Roughness
		if roughness == 0 {
			roughness = 0.5
		}
		opacity := in.Opacity
		if opacity == 0 {
			opacity = 1.0
		}
		return s.forward(ctx, "create_material", map[string]any{
			"name":        in.Name,
			"color":       color,
			"reflectance": in.Reflectance,
			"roughness":   roughness,
			"metallic":    in.Metallic,
			"opacity":     opacity,
		})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "apply_material",
		Description: "Apply a material to an object.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in applyMaterialInput) (*mcp.CallToolResult, any, error) {
		if _, err := s.bridge.Send(ctx, "apply_material", map[string]any{
			"object_name":   in.ObjectName,
			"material_name": in.MaterialName,
		}); err != nil {
			return nil, nil, err
		}
		return textResult(fmt.Sprintf("Applied material %q to %q", in.MaterialName, in.ObjectName)), nil, nil
	})
}

func (s *Server) addRenderTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_viewport_screenshot",
		Description: "Capture the current viewport as a PNG image.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in screenshotInput) (*mcp.CallToolResult, any, error) {
		width, height := imageSize(in.Width, in.Height)
		return s.imageRoundTrip(ctx, "get_viewport_screenshot", "c4d_screenshot", map[string]any{
			"width":  width,
			"height": height,
		})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "render_frame",
		Description: "Render the current frame from the active camera and return the PNG.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in renderFrameInput) (*mcp.CallToolResult, any, error) {
		width, height := imageSize(in.Width, in.Height)
		renderer := in.Renderer
		if renderer == "" {
			renderer = "standard"
		}
		samples := in.Samples
		if samples == 0 {
			samples = 100
		}
		return s.imageRoundTrip(ctx, "render_frame", "c4d_render", map[string]any{
			"width":    width,
			"height":   height,
			"renderer": renderer,
			"samples":  samples,
		})
	})
}

// imageRoundTrip asks the plugin to write an image to a temp file, reads it
// back and returns it as PNG content. The plugin runs on the same machine,
// so a shared temp path works; there is no image transfer on the socket.
func (s *Server) imageRoundTrip(ctx context.Context, command, prefix string, params map[string]any) (*mcp.CallToolResult, any, error) {
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%d.png", prefix, os.Getpid()))
	params["filepath"] = tempPath

	if _, err := s.bridge.Send(ctx, command, params); err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s produced no image file: %w", command, err)
	}
	defer os.Remove(tempPath)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{Data: data, MIMEType: "image/png"}},
	}, nil, nil
}

func imageSize(width, height int) (int, int) {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	return width, height
}
