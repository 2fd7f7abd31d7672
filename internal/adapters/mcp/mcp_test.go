package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"firedam/internal/adapters/memory"
	"firedam/internal/application"
	"firedam/internal/domain"
	"firedam/internal/metrics"
)

func testBackend(t *testing.T) (*application.Backend, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	s.AddDocument("assets", domain.RawRecord{
		"id": "asset123", "title": "Summer banner", "category": "image",
		"visibility": "public", "tags": []any{"banner"},
	})
	s.AddDocument("assets", domain.RawRecord{
		"id": "asset456", "title": "Launch video", "category": "video", "visibility": "public",
	})
	s.AddObject(domain.AssetBucket, domain.RawRecord{"name": "assets/a.png", "contentType": "image/png", "size": int64(10)})
	s.AddObject(domain.AssetBucket, domain.RawRecord{"name": "other/b.png", "contentType": "image/png", "size": int64(20)})
	return application.NewBackend(s, s), s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func decodePayload(t *testing.T, res *mcp.CallToolResult) SearchPayload {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var p SearchPayload
	if err := json.Unmarshal([]byte(resultText(t, res)), &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return p
}

func TestSearchHandler(t *testing.T) {
	backend, _ := testBackend(t)

	tests := []struct {
		name      string
		resource  string
		args      map[string]any
		wantCount int
		wantFirst string
	}{
		{
			name:      "no filter",
			resource:  "assets",
			wantCount: 2,
			wantFirst: "asset123",
		},
		{
			name:      "object filter",
			resource:  "assets",
			args:      map[string]any{"filter": map[string]any{"category": "video"}},
			wantCount: 1,
			wantFirst: "asset456",
		},
		{
			name:      "string filter",
			resource:  "assets",
			args:      map[string]any{"filter": `{"tags": ["banner", "hero"]}`},
			wantCount: 1,
			wantFirst: "asset123",
		},
		{
			name:      "null filter",
			resource:  "assets",
			args:      map[string]any{"filter": nil},
			wantCount: 2,
			wantFirst: "asset123",
		},
		{
			name:      "storage prefix",
			resource:  "asset_files",
			args:      map[string]any{"filter": map[string]any{"prefix": "assets/", "contentType": "image/png"}},
			wantCount: 1,
			wantFirst: "assets/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := searchHandler(backend, tt.resource)(context.Background(), callRequest(ToolName(tt.resource), tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			p := decodePayload(t, res)
			if p.Resource != tt.resource {
				t.Errorf("expected resource %q, got %q", tt.resource, p.Resource)
			}
			if p.Count != tt.wantCount || len(p.Records) != tt.wantCount {
				t.Fatalf("expected %d records, got count=%d len=%d", tt.wantCount, p.Count, len(p.Records))
			}
			key := "id"
			if tt.resource == "asset_files" {
				key = "name"
			}
			if p.Records[0][key] != tt.wantFirst {
				t.Errorf("expected first record %q, got %v", tt.wantFirst, p.Records[0][key])
			}
		})
	}
}

func TestSearchHandler_CallerFaultsSkipBackend(t *testing.T) {
	backend, store := testBackend(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{"unknown attribute", map[string]any{"filter": map[string]any{"owner": "me"}}, "unknown attribute"},
		{"bad date", map[string]any{"filter": map[string]any{"uploadedAt": ">=soon"}}, "invalid value"},
		{"range on string", map[string]any{"filter": map[string]any{"category": ">=a"}}, "not supported"},
		{"malformed json string", map[string]any{"filter": `{"category": `}, "invalid value"},
		{"filter is a list", map[string]any{"filter": []any{"a"}}, "must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := searchHandler(backend, "assets")(context.Background(), callRequest("search_assets", tt.args))
			if err != nil {
				t.Fatalf("handlers report failures as tool errors, got %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if msg := resultText(t, res); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, msg)
			}
		})
	}

	if queries, listings := store.Calls(); queries != 0 || listings != 0 {
		t.Errorf("expected no backend calls, got %d queries and %d listings", queries, listings)
	}
}

func TestSearchHandler_BackendFailure(t *testing.T) {
	backend, store := testBackend(t)
	store.FailWith(domain.Unauthorized("memory", "query", errors.New("token expired")))

	res, err := searchHandler(backend, "assets")(context.Background(), callRequest("search_assets", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "authorization failed") {
		t.Errorf("expected authorization tool error, got %+v", res)
	}

	store.FailWith(nil)
	res, _ = searchHandler(backend, "assets")(context.Background(), callRequest("search_assets", nil))
	if p := decodePayload(t, res); p.Count != 2 {
		t.Errorf("expected recovery after failure, got %d records", p.Count)
	}
}

func TestDescribeHandler(t *testing.T) {
	backend, _ := testBackend(t)

	res, err := describeHandler(backend)(context.Background(), callRequest("describe_resources", nil))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	var body struct {
		Resources []struct {
			Name string `json:"name"`
		} `json:"resources"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Resources) != 4 {
		t.Errorf("expected 4 resources, got %d", len(body.Resources))
	}

	res, _ = describeHandler(backend)(context.Background(), callRequest("describe_resources", map[string]any{"resource": "users"}))
	if !res.IsError {
		t.Error("expected error for unknown resource")
	}
}

func TestToolDescription(t *testing.T) {
	registry := domain.NewRegistry()

	tests := []struct {
		resource string
		want     []string
	}{
		{"assets", []string{"category", "tags", "visibility: one of public, private", "uploadedAt", `"uploadedAt":">=2024-06-01"`}},
		{"versions", []string{"assetId", "fileSize: number", "updatedAt"}},
		{"comments", []string{"assetId", "user", "createdAt"}},
		{"asset_files", []string{"prefix", "contentType", "downloadUrl", `"prefix":"assets/"`}},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			desc, err := registry.Describe(tt.resource)
			if err != nil {
				t.Fatal(err)
			}
			got := toolDescription(desc)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("description missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	backend, _ := testBackend(t)
	m := metrics.New()
	handler := Instrument(zap.NewNop(), m)(searchHandler(backend, "assets"))

	if _, err := handler(context.Background(), callRequest("search_assets", nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := handler(context.Background(), callRequest("search_assets", map[string]any{"filter": map[string]any{"owner": "x"}})); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.ToolCalls.WithLabelValues("search_assets", "ok")); got != 1 {
		t.Errorf("expected 1 ok call, got %v", got)
	}
	if got := testutil.ToFloat64(m.ToolCalls.WithLabelValues("search_assets", "unknown_attribute")); got != 1 {
		t.Errorf("expected 1 unknown_attribute call, got %v", got)
	}
	if n := testutil.CollectAndCount(m.ToolRecords); n != 1 {
		t.Errorf("expected records histogram for one tool, got %d", n)
	}
}

func TestNewServer_ListsTools(t *testing.T) {
	backend, _ := testBackend(t)
	s := NewServer(backend, Options{})

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, tool := range body.Result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"describe_resources", "ping", "search_asset_files", "search_assets", "search_comments", "search_versions"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("expected tools %v, got %v", want, names)
	}
}
