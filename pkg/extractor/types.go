// Package extractor provides per-file extraction of structured documents.
//
// Each source file is parsed ONCE, converted to the abstract syntax tree,
// indexed for symbols and walked by the docgen engine. Decompiler dumps skip
// the parse and take their tree and symbol table from the dump.
package extractor

import (
	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries"
)

// FileResult is the outcome of extracting one unit.
type FileResult struct {
	// Path is the source file, or for decompiled units the qualified type
	// name the output file is named after.
	Path string

	// Source is the unit's path as recorded on the document root: the file
	// path or the assembly.
	Source string

	Document    *document.Document
	Diagnostics []docgen.Diagnostic
	Artifacts   []docgen.Artifact

	// Usings lists the unit's using directives. Decompiled units have none.
	Usings []queries.Using

	// Nodes is the number of position-bearing nodes in the document.
	Nodes int

	// Hash is the xxhash of the unit's source text.
	Hash uint64
}

// TypeOutcome is the result of extracting one type of a decompiler dump.
type TypeOutcome struct {
	Name   string
	Result *FileResult
	Err    error
}
