// Package mcp exposes the diagram service as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/drawctl/pkg/buildinfo"
	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/service"
)

// Server adapts a [service.Service] to MCP.
type Server struct {
	mcpServer *server.MCPServer
	svc       *service.Service
	logger    *log.Logger
}

// NewServer registers every tool on a new MCP server.
func NewServer(svc *service.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer("drawctl", buildinfo.Version, server.WithToolCapabilities(false)),
		svc:       svc,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdin/stdout until the input closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server, for embedding in other
// transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_diagram",
		mcp.WithDescription("Create an empty draw.io diagram file (.drawio, .drawio.svg, .svg or .xml)."),
		pathArg(),
		mcp.WithString("page_name", mcp.Description("Name of the diagram page (default Page-1)")),
		mcp.WithBoolean("overwrite", mcp.Description("Replace an existing file")),
	), s.handleCreate)

	s.mcpServer.AddTool(mcp.NewTool("add_nodes",
		mcp.WithDescription("Add nodes to a diagram, optionally followed by one layout pass over all top-level nodes."),
		pathArg(),
		mcp.WithArray("nodes", mcp.Required(), mcp.Description("Nodes to add, in order"), mcp.Items(nodeSchema)),
		mcp.WithObject("layout", mcp.Description("Layout to run after the nodes are added"), mcp.Properties(layoutSchema)),
	), s.handleAddNodes)

	s.mcpServer.AddTool(mcp.NewTool("edit_nodes",
		mcp.WithDescription("Update nodes or edges by id. Omitted fields are left unchanged."),
		pathArg(),
		mcp.WithArray("edits", mcp.Required(), mcp.Description("Partial updates, in order"), mcp.Items(editSchema)),
	), s.handleEditNodes)

	s.mcpServer.AddTool(mcp.NewTool("link_nodes",
		mcp.WithDescription("Connect nodes. Linking a pair that is already connected, in either direction, updates that edge instead of adding another."),
		pathArg(),
		mcp.WithArray("links", mcp.Required(), mcp.Description("Edges to create or update"), mcp.Items(linkSchema)),
	), s.handleLinkNodes)

	s.mcpServer.AddTool(mcp.NewTool("remove_nodes",
		mcp.WithDescription("Remove nodes or edges by id. Removing a node also removes its children and every connected edge."),
		pathArg(),
		mcp.WithArray("ids", mcp.Required(), mcp.Description("Node or edge ids"), mcp.Items(map[string]any{"type": "string"})),
	), s.handleRemoveNodes)

	s.mcpServer.AddTool(mcp.NewTool("get_diagram_info",
		mcp.WithDescription("List the nodes and edges of a diagram."),
		pathArg(),
	), s.handleInfo)
}

func pathArg() mcp.ToolOption {
	return mcp.WithString("path", mcp.Required(), mcp.Description("Diagram file path; relative paths use the configured diagrams directory"))
}

func (s *Server) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.CreateRequest{})
}

func (s *Server) handleAddNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.AddRequest{})
}

func (s *Server) handleEditNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.EditRequest{})
}

func (s *Server) handleLinkNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.LinkRequest{})
}

func (s *Server) handleRemoveNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.RemoveRequest{})
}

func (s *Server) handleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, &service.InspectRequest{})
}

// run decodes the tool arguments into payload and executes it.
func (s *Server) run(ctx context.Context, req mcp.CallToolRequest, payload service.Request) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return s.fail(req, errors.Wrap(errors.ErrCodeInvalidInput, err, "arguments")), nil
	}
	if err := service.DecodeRequest(raw, payload); err != nil {
		return s.fail(req, err), nil
	}
	s.logger.Debug("tool call", "tool", req.Params.Name)
	res, err := s.svc.Execute(ctx, payload)
	return s.respond(req, res, err)
}

// respond renders v as indented JSON, or err as a tool error.
func (s *Server) respond(req mcp.CallToolRequest, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return s.fail(req, err), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s result: %w", req.Params.Name, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) fail(req mcp.CallToolRequest, err error) *mcp.CallToolResult {
	code := errors.CodeOrInternal(err)
	s.logger.Warn("tool failed", "tool", req.Params.Name, "code", code, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", code, errors.UserMessage(err)))
}
