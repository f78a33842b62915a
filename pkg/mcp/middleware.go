package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/syntaxdoc/pkg/mcplog"
)

// callLog wraps every extraction and lookup tool so that each call becomes
// one JSONL line in log. C# source passed inline to extract_source is
// recorded by length and hash only. A nil log leaves handlers unwrapped.
func callLog(log *mcplog.Logger) server.ToolHandlerMiddleware {
	if log == nil {
		return func(next server.ToolHandlerFunc) server.ToolHandlerFunc { return next }
	}
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
			start := mcplog.Now()
			defer func() {
				_ = log.Write(mcplog.NewEntry(req.Params.Name, req.GetArguments(), start, result, err))
			}()
			return next(ctx, req)
		}
	}
}
