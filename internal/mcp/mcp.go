package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/matillion/mattermost-export/internal/export"
	"github.com/matillion/mattermost-export/internal/mattermost"
)

// errorWrappingHandler wraps a ToolHandler to provide enhanced error messages
type errorWrappingHandler struct {
	handler ToolHandler
	logger  *zap.Logger
}

func (h *errorWrappingHandler) ListChannels(ctx context.Context, req *mcp.CallToolRequest, input export.ListChannelsInput) (*mcp.CallToolResult, export.ListChannelsOutput, error) {
	result, output, err := h.handler.ListChannels(ctx, req, input)
	return result, output, mattermost.WrapError(h.logger, "list_channels", err)
}

func (h *errorWrappingHandler) ExportChannel(ctx context.Context, req *mcp.CallToolRequest, input export.ExportChannelInput) (*mcp.CallToolResult, export.ExportChannelOutput, error) {
	result, output, err := h.handler.ExportChannel(ctx, req, input)
	return result, output, mattermost.WrapError(h.logger, "export_channel", err)
}

// ToolHandler defines the interface for Mattermost tool operations
//
//go:generate go tool mockgen -source=$GOFILE -destination=mcp_mocks.go -package=mcp
type ToolHandler interface {
	ListChannels(ctx context.Context, req *mcp.CallToolRequest, input export.ListChannelsInput) (*mcp.CallToolResult, export.ListChannelsOutput, error)
	ExportChannel(ctx context.Context, req *mcp.CallToolRequest, input export.ExportChannelInput) (*mcp.CallToolResult, export.ExportChannelOutput, error)
}

// CreateServer creates an MCP server with all export tools registered
func CreateServer(logger *zap.Logger, handler ToolHandler) *mcp.Server {
	logger.Info("Starting MCP server")
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mattermost-export",
			Version: "1.0.0",
		},
		nil,
	)

	// Wrap handler to provide enhanced error messages for auth failures
	wrappedHandler := &errorWrappingHandler{handler: handler, logger: logger}
	registerTools(server, wrappedHandler)
	logger.Info("Mattermost export server initialized, starting transport")
	return server
}

// registerTools registers all export tools with the MCP server
func registerTools(server *mcp.Server, handler ToolHandler) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "mattermost_list_channels",
		Description: "List Mattermost channels the user can export. Direct messages are labeled with the other participant's username.",
	}, handler.ListChannels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mattermost_export_channel",
		Description: "Export a Mattermost channel's full history to a JSON document. Accepts a channel ID or name, optional date bounds (YYYY-MM-DD), and optional attachment download.",
	}, handler.ExportChannel)
}
