package mcp

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/matzehuels/drawctl/pkg/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	svc := service.New(service.Options{BaseDir: t.TempDir(), Logger: logger})
	return NewServer(svc, logger)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestToolsWorkflow(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s.handleCreate, "create_diagram", map[string]interface{}{
		"path": "arch.drawio", "page_name": "Overview",
	})
	if res.IsError {
		t.Fatalf("create: %s", text(t, res))
	}

	res = call(t, s.handleAddNodes, "add_nodes", map[string]interface{}{
		"path": "arch.drawio",
		"nodes": []interface{}{
			map[string]interface{}{"id": "web", "title": "Web"},
			map[string]interface{}{"id": "db", "kind": "cylinder", "fill_color": "#dae8fc"},
		},
		"layout": map[string]interface{}{"algorithm": "stack"},
	})
	if res.IsError {
		t.Fatalf("add: %s", text(t, res))
	}
	var added service.AddResult
	if err := json.Unmarshal([]byte(text(t, res)), &added); err != nil {
		t.Fatal(err)
	}
	if strings.Join(added.IDs, ",") != "web,db" || added.Layout == nil {
		t.Errorf("add result = %+v", added)
	}

	res = call(t, s.handleLinkNodes, "link_nodes", map[string]interface{}{
		"path":  "arch.drawio",
		"links": []interface{}{map[string]interface{}{"from": "web", "to": "db", "title": "sql"}},
	})
	if res.IsError || !strings.Contains(text(t, res), "web-2-db") {
		t.Fatalf("link: %s", text(t, res))
	}

	res = call(t, s.handleEditNodes, "edit_nodes", map[string]interface{}{
		"path":  "arch.drawio",
		"edits": []interface{}{map[string]interface{}{"id": "web", "title": "Frontend"}},
	})
	if res.IsError {
		t.Fatalf("edit: %s", text(t, res))
	}

	res = call(t, s.handleInfo, "get_diagram_info", map[string]interface{}{"path": "arch.drawio"})
	if res.IsError {
		t.Fatalf("info: %s", text(t, res))
	}
	var sum service.Summary
	if err := json.Unmarshal([]byte(text(t, res)), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.PageName != "Overview" || sum.NodeCount != 2 || sum.EdgeCount != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Nodes[0].Label != "Frontend" {
		t.Errorf("web label = %q, want Frontend", sum.Nodes[0].Label)
	}

	res = call(t, s.handleRemoveNodes, "remove_nodes", map[string]interface{}{
		"path": "arch.drawio", "ids": []interface{}{"db", "ghost"},
	})
	if res.IsError {
		t.Fatalf("remove: %s", text(t, res))
	}
	var removed service.RemoveResult
	if err := json.Unmarshal([]byte(text(t, res)), &removed); err != nil {
		t.Fatal(err)
	}
	if strings.Join(removed.Edges, ",") != "web-2-db" || strings.Join(removed.Missing, ",") != "ghost" {
		t.Errorf("remove result = %+v", removed)
	}
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleCreate, "create_diagram", map[string]interface{}{"path": "d.drawio"})

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		prefix  string
	}{
		{"missing path", s.handleInfo, map[string]interface{}{}, "[INVALID_INPUT]"},
		{"unknown field", s.handleAddNodes, map[string]interface{}{
			"path": "d.drawio", "nodes": []interface{}{map[string]interface{}{"id": "a", "colour": "red"}},
		}, "[INVALID_INPUT]"},
		{"wrong type", s.handleRemoveNodes, map[string]interface{}{"path": "d.drawio", "ids": "a"}, "[INVALID_INPUT]"},
		{"empty batch", s.handleAddNodes, map[string]interface{}{"path": "d.drawio", "nodes": []interface{}{}}, "[INVALID_INPUT]"},
		{"bad kind", s.handleAddNodes, map[string]interface{}{
			"path": "d.drawio", "nodes": []interface{}{map[string]interface{}{"id": "a", "kind": "blob"}},
		}, "[INVALID_KIND]"},
		{"bad layout", s.handleAddNodes, map[string]interface{}{
			"path": "d.drawio", "nodes": []interface{}{map[string]interface{}{"id": "a"}},
			"layout": map[string]interface{}{"algorithm": "spiral"},
		}, "[INVALID_LAYOUT]"},
		{"unknown node", s.handleEditNodes, map[string]interface{}{
			"path": "d.drawio", "edits": []interface{}{map[string]interface{}{"id": "nope"}},
		}, "[NOT_FOUND]"},
		{"exists", s.handleCreate, map[string]interface{}{"path": "d.drawio"}, "[ALREADY_EXISTS]"},
		{"missing file", s.handleInfo, map[string]interface{}{"path": "other.drawio"}, "[NOT_FOUND]"},
		{"bad extension", s.handleInfo, map[string]interface{}{"path": "d.png"}, "[INVALID_PATH]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tt.handler, tt.name, tt.args)
			if !res.IsError {
				t.Fatalf("expected tool error, got %s", text(t, res))
			}
			if got := text(t, res); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("error = %q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t)
	if s.MCPServer() == nil {
		t.Fatal("nil MCP server")
	}
	want := []string{"create_diagram", "add_nodes", "edit_nodes", "link_nodes", "remove_nodes", "get_diagram_info"}
	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range want {
		if !strings.Contains(string(raw), `"name":"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
}
