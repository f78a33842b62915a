package extractor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/frontend/csharp"
	"github.com/gnana997/syntaxdoc/pkg/frontend/decompiled"
	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries"
	"github.com/gnana997/syntaxdoc/pkg/symbols"
)

// Extractor runs the whole pipeline for one unit at a time. It holds no
// per-unit state and is safe for concurrent use.
//
// Usage:
//
//	ex := extractor.NewExtractor(parserManager, queryManager, logger)
//	result, err := ex.ExtractFile(filePath, sourceCode)
//	if err != nil {
//	    return err
//	}
//	// Use result.Document, result.Artifacts, result.Diagnostics
type Extractor struct {
	parserManager *parser.ParserManager
	queryManager  *queries.QueryManager
	adapter       *csharp.Adapter
	source        *docgen.Extractor
	decompiled    *docgen.Extractor
	logger        *slog.Logger
}

// NewExtractor creates an extractor.
//
// The parserManager parses source files and the queryManager runs the using
// directive query on the same tree. A nil queryManager skips usings.
func NewExtractor(pm *parser.ParserManager, qm *queries.QueryManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		parserManager: pm,
		queryManager:  qm,
		adapter:       csharp.NewAdapter(logger),
		source:        docgen.NewExtractor(docgen.SourceProfile, logger),
		decompiled:    docgen.NewExtractor(docgen.DecompiledProfile, logger),
		logger:        logger,
	}
}

// ExtractFile parses a file ONCE and builds its document from that tree.
//
// The pipeline:
// 1. Parses the file using the ParserManager (.cs and .csx only)
// 2. Converts the tree-sitter tree to the abstract syntax tree
// 3. Builds the symbol index over the abstract tree
// 4. Walks the tree with the source profile
// 5. Collects the using directives from the same tree
// 6. Closes the tree
//
// A syntax error or an unsupported construct fails the file; no partial
// document is returned.
func (e *Extractor) ExtractFile(filePath string, sourceCode []byte) (*FileResult, error) {
	start := time.Now()

	// 1. Parse
	tree, err := e.parserManager.ParseFile(sourceCode, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close() // CRITICAL: Close tree after extraction to avoid memory leak

	// 2. Adapt
	root, err := e.adapter.Adapt(tree, sourceCode, filePath)
	if err != nil {
		return nil, err
	}

	// 3. Symbols
	model := symbols.Build(root)

	// 4. Walk
	res, err := e.source.Extract(docgen.Unit{
		Root:   root,
		Path:   filePath,
		Source: string(sourceCode),
		Model:  model,
	})
	if err != nil {
		return nil, err
	}

	// 5. Usings
	var usings []queries.Using
	if e.queryManager != nil {
		usings, err = e.queryManager.Usings(tree, sourceCode)
		if err != nil {
			e.logger.Debug("failed to collect usings", "file", filePath, "error", err)
		}
	}

	e.logger.Debug("extracted file",
		"file", filePath,
		"dialect", parser.DetectDialect(filePath).String(),
		"nodes", res.Nodes,
		"symbols", model.Len(),
		"artifacts", len(res.Artifacts),
		"diagnostics", len(res.Diagnostics),
		"duration", time.Since(start))

	return &FileResult{
		Path:        filePath,
		Source:      filePath,
		Document:    res.Document,
		Diagnostics: res.Diagnostics,
		Artifacts:   res.Artifacts,
		Usings:      usings,
		Nodes:       res.Nodes,
		Hash:        xxhash.Sum64(sourceCode),
	}, nil
}

// ExtractType builds the document of one decompiled type.
func (e *Extractor) ExtractType(assembly string, t *decompiled.TypeDump) (*FileResult, error) {
	res, err := e.decompiled.Extract(t.Unit(assembly))
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", t.Name, err)
	}
	return &FileResult{
		Path:        t.Name,
		Source:      assembly,
		Document:    res.Document,
		Diagnostics: res.Diagnostics,
		Artifacts:   res.Artifacts,
		Nodes:       res.Nodes,
		Hash:        xxhash.Sum64String(t.Source),
	}, nil
}

// ExtractDecompiled builds one document per type of a dump. A failing type
// is reported in its outcome and does not stop the others.
func (e *Extractor) ExtractDecompiled(d *decompiled.Dump) []TypeOutcome {
	outcomes := make([]TypeOutcome, 0, len(d.Types))
	failed := 0
	for i := range d.Types {
		t := &d.Types[i]
		res, err := e.ExtractType(d.Assembly, t)
		if err != nil {
			failed++
		}
		outcomes = append(outcomes, TypeOutcome{Name: t.Name, Result: res, Err: err})
	}

	e.logger.Info("extracted assembly",
		"assembly", d.Assembly,
		"types", len(d.Types),
		"failed", failed)
	return outcomes
}

// Outline lists a file's declarations without building its document.
func (e *Extractor) Outline(filePath string, sourceCode []byte) ([]queries.OutlineEntry, error) {
	if e.queryManager == nil {
		return nil, fmt.Errorf("outline %s: no query manager", filePath)
	}
	tree, err := e.parserManager.ParseFile(sourceCode, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close()

	return e.queryManager.Outline(tree, sourceCode)
}
