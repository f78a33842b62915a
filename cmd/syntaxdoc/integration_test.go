package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "syntaxdoc-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "syntaxdoc")
	build := exec.Command("go", "build", "-o", binaryPath, ".")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches syntaxdoc serve over root and returns an initialized
// MCP client.
func startServer(t *testing.T, root string) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve", root, "--log-level", "warn")
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "syntaxdoc-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "syntaxdoc", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func firstText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t, writeProject(t))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		names[i] = tool.Name
	}
	for _, want := range []string{"extract_source", "extract_file", "get_artifact", "list_artifacts", "outline_file", "index_stats"} {
		assert.Contains(t, names, want)
	}
}

func TestIntegration_PreloadedIndex(t *testing.T) {
	skipIfNotIntegration(t)
	root := writeProject(t)
	c := startServer(t, root)

	result := callToolHelper(t, c, "get_artifact", map[string]any{"id": "Type:Shop.Book"})
	require.False(t, result.IsError, firstText(t, result))

	var details map[string]any
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &details))
	assert.Equal(t, "Shop.Book", details["qualified_name"])
	assert.Contains(t, details["snippet"], "class Book")
}

func TestIntegration_ExtractSource(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t, writeProject(t))

	result := callToolHelper(t, c, "extract_source", map[string]any{
		"source": "namespace Demo { class Widget { int Size() { return 1; } } }",
	})
	require.False(t, result.IsError, firstText(t, result))
	assert.Contains(t, firstText(t, result), `Artifact="Method:Demo.Widget.Size()"`)
}
