package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/indexer"
	"github.com/gnana997/syntaxdoc/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for syntaxdoc, exposing extraction and
// artifact lookup tools over an in-memory document index.
type Server struct {
	mcpServer *server.MCPServer
	extractor *extractor.Extractor
	index     *indexer.DocumentIndex
	logger    *mcplog.Logger // nil disables call logging
}

// NewServer creates a new MCP server. Files extracted through the server are
// added to index, which a FileWatcher may keep current at the same time. A nil
// index is replaced by an empty default one.
func NewServer(ext *extractor.Extractor, index *indexer.DocumentIndex, logger *mcplog.Logger) *Server {
	if index == nil {
		index = indexer.NewDocumentIndex(indexer.DefaultDocumentIndexConfig(), nil)
	}
	s := &Server{extractor: ext, index: index, logger: logger}

	s.mcpServer = server.NewMCPServer(
		"syntaxdoc",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(callLog(logger)),
	)

	s.mcpServer.AddTools(s.tools()...)
	return s
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: extractSourceTool(), Handler: s.handleExtractSource},
		{Tool: extractFileTool(), Handler: s.handleExtractFile},
		{Tool: getArtifactTool(), Handler: s.handleGetArtifact},
		{Tool: listArtifactsTool(), Handler: s.handleListArtifacts},
		{Tool: outlineFileTool(), Handler: s.handleOutlineFile},
		{Tool: indexStatsTool(), Handler: s.handleIndexStats},
	}
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
