package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Output formats accepted by the extraction tools.
const (
	formatXML  = "xml"
	formatJSON = "json"
)

func extractSourceTool() mcp.Tool {
	return mcp.NewTool("extract_source",
		mcp.WithDescription("Extract the structured document of a C# snippet. The snippet is not added to the index."),
		mcp.WithString("source", mcp.Required(), mcp.Description("C# source text of one compilation unit")),
		mcp.WithString("path", mcp.Description("File name recorded in the document (default Snippet.cs)")),
		mcp.WithString("format", mcp.Enum(formatXML, formatJSON), mcp.Description("Output format (default xml)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func extractFileTool() mcp.Tool {
	return mcp.NewTool("extract_file",
		mcp.WithDescription("Extract a C# file from disk and add its artifacts to the index. Unchanged files are served from the index."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .cs file")),
		mcp.WithString("format", mcp.Enum(formatXML, formatJSON), mcp.Description("Output format (default xml)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getArtifactTool() mcp.Tool {
	return mcp.NewTool("get_artifact",
		mcp.WithDescription("Look up an indexed declaration by artifact identifier, e.g. Type:Shop.Book or Method:Shop.Book.Title()"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Artifact identifier")),
		mcp.WithBoolean("include_snippet", mcp.Description("Include the declaration's source text (default true)")),
		mcp.WithBoolean("include_subtree", mcp.Description("Include the declaration's document subtree as JSON (default false)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listArtifactsTool() mcp.Tool {
	return mcp.NewTool("list_artifacts",
		mcp.WithDescription("List indexed artifacts, optionally filtered by kind and qualified name prefix"),
		mcp.WithString("kind", mcp.Enum("Type", "Method"), mcp.Description("Artifact kind")),
		mcp.WithString("prefix", mcp.Description("Qualified name prefix, e.g. Shop.Orders")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 100)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func outlineFileTool() mcp.Tool {
	return mcp.NewTool("outline_file",
		mcp.WithDescription("Compact list of the declarations in a C# file with their containers and locations"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .cs file")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func indexStatsTool() mcp.Tool {
	return mcp.NewTool("index_stats",
		mcp.WithDescription("Document index statistics: documents, artifacts, cache hit rate"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
