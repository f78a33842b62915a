package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/indexer"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

const (
	defaultSnippetPath = "Snippet.cs"
	defaultListLimit   = 100
)

type artifactSummary struct {
	ID            string       `json:"id"`
	Kind          string       `json:"kind"`
	QualifiedName string       `json:"qualified_name"`
	Label         string       `json:"label"`
	Path          string       `json:"path"`
	Partial       bool         `json:"partial,omitempty"`
	Span          *syntax.Span `json:"span,omitempty"`
}

type artifactDetails struct {
	artifactSummary
	Attributes map[string]string `json:"attributes"`
	Snippet    string            `json:"snippet,omitempty"`
	Subtree    json.RawMessage   `json:"subtree,omitempty"`
}

type diagnosticSummary struct {
	Message string      `json:"message"`
	Kind    string      `json:"kind"`
	Span    syntax.Span `json:"span"`
}

type indexStats struct {
	IndexedDocuments int     `json:"indexed_documents"`
	CachedDocuments  int     `json:"cached_documents"`
	DirtyDocuments   int     `json:"dirty_documents"`
	TotalArtifacts   int     `json:"total_artifacts"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	Evictions        int64   `json:"evictions"`
}

// --- extraction ---

func (s *Server) handleExtractSource(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := req.GetString("path", defaultSnippetPath)

	result, err := s.extractor.ExtractFile(path, []byte(source))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return documentResult(result, req.GetString("format", formatXML))
}

func (s *Server) handleExtractFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
	}

	format := req.GetString("format", formatXML)
	if s.index.Unchanged(path, content) {
		if doc, ok := s.index.GetDocument(path); ok {
			return documentResult(doc.Result, format)
		}
	}

	result, err := s.extractor.ExtractFile(path, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.index.Add(result)
	return documentResult(result, format)
}

// documentResult renders the document as the first content item. Absorbed
// diagnostics, if any, follow as a JSON list.
func documentResult(result *extractor.FileResult, format string) (*mcp.CallToolResult, error) {
	var text string
	switch format {
	case formatXML:
		var buf bytes.Buffer
		if err := result.Document.WriteXML(&buf); err != nil {
			return nil, err
		}
		text = buf.String()
	case formatJSON:
		data, err := json.Marshal(result.Document)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		text = string(data)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (want xml or json)", format)), nil
	}

	out := mcp.NewToolResultText(text)
	if len(result.Diagnostics) > 0 {
		diags := make([]diagnosticSummary, len(result.Diagnostics))
		for i, d := range result.Diagnostics {
			diags[i] = diagnosticSummary{Message: d.Error(), Kind: d.Kind.String(), Span: d.Span}
		}
		data, err := json.Marshal(diags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal diagnostics: %w", err)
		}
		out.Content = append(out.Content, mcp.NewTextContent(string(data)))
	}
	return out, nil
}

// --- artifacts ---

func (s *Server) handleGetArtifact(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	node, doc, found := s.index.GetArtifact(id)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("artifact not found: %s", id)), nil
	}

	details := artifactDetails{
		artifactSummary: summarize(findArtifact(doc, id), doc.Path),
		Attributes:      make(map[string]string, len(node.Attrs())),
	}
	for _, a := range node.Attrs() {
		details.Attributes[a.Key] = a.Value
	}

	if req.GetBool("include_snippet", true) {
		if span, ok := docgen.SpanOf(node); ok {
			source := doc.Result.Document.Source()
			details.Snippet = syntax.NewLineIndex([]byte(source)).Slice(span)
		}
	}
	if req.GetBool("include_subtree", false) {
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal subtree: %w", err)
		}
		details.Subtree = data
	}

	return marshalToolResponse(details)
}

func (s *Server) handleListArtifacts(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "")
	prefix := req.GetString("prefix", "")
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	matches := s.index.FindArtifacts(func(a docgen.Artifact) bool {
		return (kind == "" || a.Kind == kind) && strings.HasPrefix(a.QualifiedName, prefix)
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	summaries := make([]artifactSummary, 0, len(matches))
	for _, a := range matches {
		path, _ := s.index.ArtifactPath(a.ID)
		summaries = append(summaries, summarize(a, path))
	}

	return marshalToolResponse(map[string]any{
		"total":     total,
		"artifacts": summaries,
	})
}

// findArtifact returns the unit's record of id. Lookups in the index only
// return artifacts the document owns, so a miss degrades to the bare ID.
func findArtifact(doc *indexer.IndexedDocument, id string) docgen.Artifact {
	for _, a := range doc.Result.Artifacts {
		if a.ID == id {
			return a
		}
	}
	kind, name, _ := strings.Cut(id, ":")
	return docgen.Artifact{ID: id, Kind: kind, QualifiedName: name}
}

func summarize(a docgen.Artifact, path string) artifactSummary {
	out := artifactSummary{
		ID:            a.ID,
		Kind:          a.Kind,
		QualifiedName: a.QualifiedName,
		Label:         a.Label,
		Path:          path,
		Partial:       a.Partial,
	}
	if !a.Span.IsZero() {
		span := a.Span
		out.Span = &span
	}
	return out
}

// --- outline & stats ---

func (s *Server) handleOutlineFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
	}

	entries, err := s.extractor.Outline(path, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no declarations found in %s", path)), nil
	}
	return marshalToolResponse(entries)
}

func (s *Server) handleIndexStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.index.GetStats()
	return marshalToolResponse(indexStats{
		IndexedDocuments: st.IndexedDocuments,
		CachedDocuments:  st.CachedDocuments,
		DirtyDocuments:   st.DirtyDocuments,
		TotalArtifacts:   st.TotalArtifacts,
		CacheHitRate:     st.CacheHitRate,
		Evictions:        st.Evictions,
	})
}

// marshalToolResponse marshals a response object to JSON text content.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
