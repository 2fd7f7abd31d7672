package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"firedam/internal/application"
	"firedam/internal/metrics"
)

const instructions = `Read-only access to the digital asset catalogue.
Call describe_resources to see the filter keys of each resource, then one of
the search_* tools with a "filter" object. Bare values test equality, lists
test membership (or overlap for list attributes), and ">=" / "<=" prefixes
give inclusive bounds on dates and numbers.`

// Options configures NewServer
type Options struct {
	Name    string
	Version string
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewServer builds an MCP server exposing the search, describe and ping tools
// over backend.
func NewServer(backend *application.Backend, opts Options) *server.MCPServer {
	if opts.Name == "" {
		opts.Name = "firedam-mcp"
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(Instrument(opts.Logger, opts.Metrics)),
	)

	s.AddTool(pingTool(), pingHandler)
	RegisterSearchTools(s, backend)
	RegisterDescribeTool(s, backend)
	return s
}

// --- ping ---

func pingTool() mcp.Tool {
	return mcp.NewTool("ping",
		mcp.WithDescription("Health check. Returns pong."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func pingHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong"), nil
}
