package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"firedam/internal/application"
	"firedam/internal/application/commands"
)

// RegisterDescribeTool adds the describe_resources tool
func RegisterDescribeTool(s *server.MCPServer, backend *application.Backend) {
	s.AddTool(describeTool(), describeHandler(backend))
}

func describeTool() mcp.Tool {
	return mcp.NewTool("describe_resources",
		mcp.WithDescription("List the searchable resources with their filter keys and returned fields."),
		mcp.WithTitleAnnotation("Describe resources"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("resource",
			mcp.Description("Resource name (assets, versions, comments, asset_files). Omit to describe all."),
		),
	)
}

func describeHandler(backend *application.Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos, err := commands.NewDescribeCommand(backend.Registry, req.GetString("resource", "")).Execute(ctx)
		if err != nil {
			return toolError(ctx, err)
		}
		observe(ctx, nil, len(infos))
		return jsonResult(map[string]any{"resources": infos})
	}
}
