package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type executePythonInput struct {
	Code string `json:"code" jsonschema:"Python code to run inside Cinema 4D"`
}

type exportSceneInput struct {
	Filepath string `json:"filepath" jsonschema:"destination file path"`
	Format   string `json:"format,omitempty" jsonschema:"c4d, obj, fbx or alembic, default c4d"`
}

type importFileInput struct {
	Filepath string `json:"filepath" jsonschema:"file to import"`
	Merge    *bool  `json:"merge,omitempty" jsonschema:"merge into the current document instead of opening a new one, default true"`
}

func (s *Server) addUtilityTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "execute_python",
		Description: "Run arbitrary Python code inside Cinema 4D and return its result.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in executePythonInput) (*mcp.CallToolResult, any, error) {
		result, err := s.bridge.Send(ctx, "execute_code", map[string]any{
			"code": in.Code,
		})
		if err != nil {
			return nil, nil, err
		}

		// The plugin binds a "result" variable from the executed scope;
		// execution errors come back on the error path above.
		output, _ := result["result"].(string)
		if output == "" {
			return textResult("Code executed with no output."), nil, nil
		}
		return textResult(output), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_scene",
		Description: "Export the scene to a file in c4d, obj, fbx or alembic format.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in exportSceneInput) (*mcp.CallToolResult, any, error) {
		format := in.Format
		if format == "" {
			format = "c4d"
		}
		return s.forward(ctx, "export_scene", map[string]any{
			"filepath": in.Filepath,
			"format":   format,
		})
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "import_file",
		Description: "Import a model or scene file, merging into the current document by default.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in importFileInput) (*mcp.CallToolResult, any, error) {
		merge := in.Merge == nil || *in.Merge
		return s.forward(ctx, "import_file", map[string]any{
			"filepath": in.Filepath,
			"merge":    merge,
		})
	})
}
