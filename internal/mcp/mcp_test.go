package mcp

import (
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/matillion/mattermost-export/internal/export"
)

func TestCreateServer_ReturnsValidServer(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMockToolHandler(ctrl)
	logger := zap.NewNop()

	server := CreateServer(logger, handler)

	if server == nil {
		t.Fatal("CreateServer returned nil")
	}
}

func TestServer_ListsAllRegisteredTools(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMockToolHandler(ctrl)
	logger := zap.NewNop()

	server := CreateServer(logger, handler)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := t.Context()

	go func() {
		server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect failed: %v", err)
	}
	defer session.Close()

	result, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	wantTools := []string{
		"mattermost_list_channels",
		"mattermost_export_channel",
	}

	if len(result.Tools) != len(wantTools) {
		t.Errorf("tool count: got %d, want %d", len(result.Tools), len(wantTools))
	}

	gotNames := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		gotNames[i] = tool.Name
	}

	for _, want := range wantTools {
		if !slices.Contains(gotNames, want) {
			t.Errorf("tool %q not found in registered tools: %v", want, gotNames)
		}
	}

	for _, tool := range result.Tools {
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
}

func TestServer_CallToolInvokesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMockToolHandler(ctrl)
	logger := zap.NewNop()

	wantOutput := export.ExportChannelOutput{
		ChannelID:   "abcdefghijklmnopqrstuvwxyz",
		DisplayName: "Town Square",
		PostCount:   42,
	}

	handler.EXPECT().
		ExportChannel(gomock.Any(), gomock.Any(), export.ExportChannelInput{Channel: "town-square"}).
		Return(nil, wantOutput, nil)

	server := CreateServer(logger, handler)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := t.Context()

	go func() {
		server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect failed: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "mattermost_export_channel",
		Arguments: map[string]any{
			"channel": "town-square",
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}

	if result.IsError {
		t.Errorf("tool call returned error: %v", result.Content)
	}
}
