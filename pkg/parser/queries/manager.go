// Package queries runs tree-sitter queries over C# parse trees: declaration
// outlines and using directives, without building a full document.
package queries

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries/imports"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries/symbols"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// QueryKind names one of the C# query sets.
type QueryKind int

const (
	// QueryDeclarations captures type, member and namespace declarations.
	QueryDeclarations QueryKind = iota
	// QueryUsings captures using directives.
	QueryUsings
)

func (k QueryKind) String() string {
	switch k {
	case QueryDeclarations:
		return "declarations"
	case QueryUsings:
		return "usings"
	default:
		return fmt.Sprintf("QueryKind(%d)", int(k))
	}
}

func (k QueryKind) pattern() (string, bool) {
	switch k {
	case QueryDeclarations:
		return symbols.CSharpQueries, true
	case QueryUsings:
		return imports.CSharpQueries, true
	default:
		return "", false
	}
}

// ErrUnknownQuery is returned for a QueryKind with no pattern.
var ErrUnknownQuery = errors.New("unknown query kind")

// QueryManager compiles the C# queries once and runs them on demand.
// It is safe for concurrent use; each run gets its own cursor.
//
// Usage:
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	entries, err := qm.Outline(tree, source)
type QueryManager struct {
	language *ts.Language
	logger   *slog.Logger

	mu       sync.Mutex
	compiled map[QueryKind]*ts.Query
}

// NewQueryManager creates a query manager compiling against the parser
// manager's grammar. Logger can be nil.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		language: pm.Language(),
		logger:   logger,
		compiled: make(map[QueryKind]*ts.Query),
	}
}

// Query returns the compiled query of the given kind, compiling it on first
// use.
func (qm *QueryManager) Query(kind QueryKind) (*ts.Query, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if q, ok := qm.compiled[kind]; ok {
		return q, nil
	}
	pattern, ok := kind.pattern()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, kind)
	}
	q, qerr := ts.NewQuery(qm.language, pattern)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query: %s", kind, qerr.Message)
	}
	qm.compiled[kind] = q

	qm.logger.Debug("compiled query", "kind", kind.String(), "patterns", q.PatternCount())
	return q, nil
}

// Run executes the query of the given kind over tree. Capture locations use
// 1-based lines and rune columns, like document positions.
func (qm *QueryManager) Run(kind QueryKind, tree *ts.Tree, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("run %s query: nil tree", kind)
	}
	query, err := qm.Query(kind)
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	lines := syntax.NewLineIndex(source)
	names := query.CaptureNames()

	var matches []QueryMatch
	iter := cursor.Matches(query, tree.RootNode(), source)
	for match := iter.Next(); match != nil; match = iter.Next() {
		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, c := range match.Captures {
			var name string
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			category, field := parseCaptureName(name)
			node := c.Node
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: locate(lines, &node),
			})
		}
		matches = append(matches, QueryMatch{Pattern: int(match.PatternIndex), Captures: captures})
	}
	return matches, nil
}

// Close frees the compiled queries.
func (qm *QueryManager) Close() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.logger.Debug("closing QueryManager", "queries_compiled", len(qm.compiled))
	for kind, q := range qm.compiled {
		q.Close()
		delete(qm.compiled, kind)
	}
	return nil
}

// QueryMatch is one pattern match.
type QueryMatch struct {
	// Pattern is the index of the matching pattern within its query set.
	Pattern int

	Captures []QueryCapture
}

// QueryCapture is one captured node. Capture names are written
// "<category>.<field>", e.g. "method.name" or "using.definition".
type QueryCapture struct {
	Name     string
	Category string
	Field    string // empty when the name has no dot
	Node     *ts.Node
	Text     string
	Location Location
}

// Location is a capture's source range.
type Location struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
	StartByte   int `json:"-"`
	EndByte     int `json:"-"`
}

// Span returns the location as a syntax span.
func (l Location) Span() syntax.Span {
	return syntax.Span{
		Start: syntax.Point{Line: l.StartLine, Col: l.StartColumn},
		End:   syntax.Point{Line: l.EndLine, Col: l.EndColumn},
	}
}

func locate(lines *syntax.LineIndex, node *ts.Node) Location {
	start, end := int(node.StartByte()), int(node.EndByte())
	span := lines.Span(start, end)
	return Location{
		StartLine:   span.Start.Line,
		StartColumn: span.Start.Col,
		EndLine:     span.End.Line,
		EndColumn:   span.End.Col,
		StartByte:   start,
		EndByte:     end,
	}
}

// parseCaptureName splits "method.name" into ("method", "name"). A name
// without a dot is returned whole as the category.
func parseCaptureName(name string) (category, field string) {
	category, field, _ = strings.Cut(name, ".")
	return category, field
}
