package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"firedam/internal/application"
	"firedam/internal/application/commands"
	"firedam/internal/domain"
	"firedam/internal/logger"
)

// ToolName returns the search tool name for a resource
func ToolName(resource string) string {
	return "search_" + resource
}

// RegisterSearchTools adds one read-only search tool per resource.
func RegisterSearchTools(s *server.MCPServer, backend *application.Backend) {
	for _, desc := range backend.Registry.Resources() {
		s.AddTool(searchTool(desc), searchHandler(backend, desc.Name()))
	}
}

// SearchPayload is the JSON body of a successful search
type SearchPayload struct {
	Resource string                `json:"resource"`
	Count    int                   `json:"count"`
	Records  []domain.ResultRecord `json:"records"`
}

// --- search_* ---

func searchTool(desc domain.ResourceDescriptor) mcp.Tool {
	return mcp.NewTool(ToolName(desc.Name()),
		mcp.WithDescription(toolDescription(desc)),
		mcp.WithTitleAnnotation("Search "+strings.ReplaceAll(desc.Name(), "_", " ")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithObject("filter",
			mcp.Description("Filter object. Omit to return everything. "+
				"A JSON string holding an object is also accepted and keeps its key order."),
		),
	)
}

func searchHandler(backend *application.Backend, resource string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter, err := filterArgument(req)
		if err != nil {
			return toolError(ctx, err)
		}

		result, err := commands.NewSearchCommand(backend, resource, filter).Execute(ctx)
		if err != nil {
			return toolError(ctx, err)
		}

		logger.FromContext(ctx).Debug("search executed")
		observe(ctx, nil, len(result.Records))
		return jsonResult(SearchPayload{
			Resource: result.Resource,
			Count:    len(result.Records),
			Records:  result.Records,
		})
	}
}

// filterArgument reads the optional "filter" argument. Objects decoded by
// the transport have lost their key order and are sorted; a JSON string is
// parsed in order.
func filterArgument(req mcp.CallToolRequest) (domain.FilterMap, error) {
	raw, ok := req.GetArguments()["filter"]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case map[string]any:
		return domain.FilterMapFrom(v), nil
	case string:
		fm, err := domain.ParseFilterMap([]byte(v))
		if err != nil {
			return nil, &domain.InvalidValueError{Attribute: "filter", Value: v, Reason: err.Error()}
		}
		return fm, nil
	default:
		return nil, &domain.InvalidValueError{Attribute: "filter", Value: raw, Reason: "must be an object"}
	}
}

// toolDescription documents a resource for the calling agent
func toolDescription(desc domain.ResourceDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search %s (%s).\n\nFilter keys:\n", strings.ReplaceAll(desc.Name(), "_", " "), desc.Description())

	for _, a := range desc.Attributes() {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Name, attributeUsage(a))
	}

	fmt.Fprintf(&sb, "\nBare values test equality. Lists test membership, or overlap for list attributes.\n")
	fmt.Fprintf(&sb, "\nReturned fields: ")
	for i, f := range desc.OutputFields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
	}
	sb.WriteString(". Absent fields are omitted.\n")

	if example := exampleFilter(desc); len(example) > 0 {
		data, _ := example.MarshalJSON()
		fmt.Fprintf(&sb, "\nExample filter: %s", data)
	}
	return sb.String()
}

func attributeUsage(a domain.Attribute) string {
	switch {
	case a.Listing:
		return "object name prefix, passed to the listing call"
	case a.Type == domain.TypeEnum:
		return "one of " + strings.Join(a.Values, ", ")
	case a.Type == domain.TypeArray:
		return "list of strings, matches when any value is present"
	case a.Type == domain.TypeDate:
		return `date; "YYYY-MM-DD" for equality, ">=YYYY-MM-DD" or "<=YYYY-MM-DD" for bounds`
	case a.Type == domain.TypeNumber:
		return `number; ">=N" or "<=N" for bounds`
	default:
		return "string"
	}
}

// exampleFilter picks one equality key and one date bound
func exampleFilter(desc domain.ResourceDescriptor) domain.FilterMap {
	var fm domain.FilterMap
	var haveScalar, haveDate bool
	for _, a := range desc.Attributes() {
		switch {
		case a.Listing && !haveScalar:
			fm = append(fm, domain.FilterEntry{Key: a.Name, Value: "assets/"})
			haveScalar = true
		case a.Type == domain.TypeArray && !haveScalar:
			fm = append(fm, domain.FilterEntry{Key: a.Name, Value: []any{"banner"}})
			haveScalar = true
		case a.Type == domain.TypeDate && !haveDate:
			fm = append(fm, domain.FilterEntry{Key: a.Name, Value: ">=2024-06-01"})
			haveDate = true
		}
	}
	return fm
}

// --- helpers ---

func toolError(ctx context.Context, err error) (*mcp.CallToolResult, error) {
	observe(ctx, err, 0)
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultStructured(v, string(data)), nil
}
