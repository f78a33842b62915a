// Package parser parses C# source with a pooled set of tree-sitter parsers.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	ts "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/gnana997/syntaxdoc/pkg/util"
)

// ErrNotCSharp is returned by ParseFile for files without a C# extension.
var ErrNotCSharp = errors.New("not a C# file")

// ParserManager parses C# source concurrently.
//
// Memory Management:
// - Parsers are created lazily, at most one per concurrent parse up to the
//   pool size, and freed by Close
// - Callers own Tree instances and must call tree.Close() after use
//
// Thread Safety:
// - All methods are safe for concurrent use
// - A parse that finds every parser busy waits for one, or for its context
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("class C { }"))
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	language *ts.Language
	pool     *parserPool
	logger   *slog.Logger

	parses  atomic.Int64
	errored atomic.Int64
	scripts atomic.Int64
}

// NewParserManager creates a ParserManager whose pool matches the batch
// worker count.
//
// The returned manager must be closed via Close() to free resources.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithPoolSize(logger, 0)
}

// NewParserManagerWithPoolSize creates a ParserManager holding at most
// poolSize parsers. Zero selects util.GetOptimalPoolSize, the same count the
// batch worker pool uses, so a worker never waits for a parser.
func NewParserManagerWithPoolSize(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	language := ts.NewLanguage(tree_sitter_csharp.Language())
	return &ParserManager{
		language: language,
		pool:     newParserPool(language, util.GetOptimalPoolSizeWithOverride(poolSize), logger),
		logger:   logger,
	}
}

// Language returns the C# grammar. QueryManager compiles its queries
// against it.
func (pm *ParserManager) Language() *ts.Language {
	return pm.language
}

// PoolSize returns the maximum number of parsers.
func (pm *ParserManager) PoolSize() int {
	return pm.pool.capacity
}

// Parse parses C# source, waiting as long as it takes for a free parser.
//
// Returns a Tree that MUST be closed by the caller via tree.Close(). Trees
// containing syntax errors are still returned; the C# front-end decides
// what to do with them (see Node.HasError).
func (pm *ParserManager) Parse(source []byte) (*ts.Tree, error) {
	return pm.ParseContext(context.Background(), source)
}

// ParseContext is Parse with a bound on the wait for a free parser. The
// parse itself is not interrupted once started.
func (pm *ParserManager) ParseContext(ctx context.Context, source []byte) (*ts.Tree, error) {
	pm.parses.Add(1)

	parser, err := pm.pool.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pm.pool.put(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	if tree.RootNode().HasError() {
		pm.errored.Add(1)
		pm.logger.Debug("parse tree contains errors", "bytes", len(source))
	}
	return tree, nil
}

// ParseFile parses a .cs or .csx file's contents.
//
// Returns a Tree that MUST be closed by the caller via tree.Close().
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	dialect := DetectDialect(filePath)
	if dialect == DialectNone {
		return nil, fmt.Errorf("%w: %s", ErrNotCSharp, filePath)
	}
	if dialect == DialectScript {
		pm.scripts.Add(1)
	}
	return pm.Parse(source)
}

// Close frees the pooled parsers. Parses started afterwards fail with
// ErrClosed.
func (pm *ParserManager) Close() error {
	freed := pm.pool.close()
	pm.logger.Debug("closed ParserManager",
		"parses", pm.parses.Load(),
		"parse_errors", pm.errored.Load(),
		"parsers_freed", freed)
	return nil
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	created, waits := pm.pool.stats()
	return ParserStats{
		ParsersCreated: created,
		PoolWaits:      waits,
		ParsesCalled:   int(pm.parses.Load()),
		ParseErrors:    int(pm.errored.Load()),
		ScriptsParsed:  int(pm.scripts.Load()),
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the number of parser instances created
	ParsersCreated int

	// PoolWaits counts parses that found every parser busy
	PoolWaits int

	// ParsesCalled is the total number of parse calls
	ParsesCalled int

	// ParseErrors counts trees that came back with syntax errors
	ParseErrors int

	// ScriptsParsed counts .csx files
	ScriptsParsed int
}
