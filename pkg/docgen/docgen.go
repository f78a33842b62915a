// Package docgen turns an abstract syntax tree into a structured,
// position-annotated document.
//
// The package is a pure in-memory transform. A front-end supplies the tree
// (see pkg/frontend), an optional Model supplies resolved symbol facts, and
// the caller serializes the returned document.Document. Every syntax kind is
// mapped through a descriptor table; a kind without a descriptor aborts the
// unit with ErrUnsupportedConstruct instead of being skipped.
package docgen

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// LanguageCSharp is the language tag written on every document root.
const LanguageCSharp = "C#"

// Unit is one compilation unit or one decompiled type.
type Unit struct {
	// Root must be a CompilationUnit node.
	Root *syntax.Node

	// Path is the source file or assembly the unit came from.
	Path string

	// Source is the original or reconstructed source text. It is embedded in
	// the document verbatim.
	Source string

	// Namespace seeds the namespace accumulator. Decompiled units whose tree
	// starts below the namespace declaration use it; source units leave it
	// empty.
	Namespace string

	// Model resolves symbol references. Nil produces a syntax-only document.
	Model Model
}

// Result is the outcome of one successful extraction.
type Result struct {
	Document *document.Document

	// Diagnostics lists the recoverable conditions absorbed during the walk.
	Diagnostics []Diagnostic

	// Artifacts lists the identifiers assigned, in document order.
	Artifacts []Artifact

	// Nodes is the number of position-bearing nodes produced.
	Nodes int
}

// Extractor runs the traversal for one profile. It holds no per-unit state and
// is safe for concurrent use.
//
// Usage:
//
//	ex := docgen.NewExtractor(docgen.SourceProfile, logger)
//	result, err := ex.Extract(docgen.Unit{Root: root, Path: path, Source: src, Model: model})
//	if errors.Is(err, docgen.ErrUnsupportedConstruct) {
//	    // record the failed unit and move on
//	}
type Extractor struct {
	profile Profile
	logger  *slog.Logger
}

// NewExtractor creates an extractor for the given profile.
func NewExtractor(profile Profile, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{profile: profile, logger: logger}
}

// Profile returns the extractor's profile.
func (e *Extractor) Profile() Profile { return e.profile }

// Extract walks one unit and returns its document.
//
// The walk:
// 1. Attaches root metadata (language, path, source text) once, up front
// 2. Visits the root's children in source order, pre-order
// 3. Maps each node through its descriptor, recursing into its child plan
// 4. Fails the whole unit on an unmapped kind or an invalid span
// 5. Repeats the first type's artifact on the root when the profile asks for it
//
// No partial document is returned on failure.
func (e *Extractor) Extract(u Unit) (*Result, error) {
	if u.Root == nil {
		return nil, fmt.Errorf("unit %s has no syntax tree", u.Path)
	}
	if u.Root.Kind() != syntax.KindCompilationUnit {
		return nil, fmt.Errorf("unit %s: root is %s, want %s", u.Path, u.Root.Kind(), syntax.KindCompilationUnit)
	}

	w := &walker{profile: e.profile, path: u.Path}
	if u.Model != nil {
		w.enricher = &enricher{model: u.Model, report: w.report}
	}

	// 1. Root metadata
	d, _ := lookup(syntax.KindCompilationUnit)
	rb := document.NewNodeBuilder(e.profile.RootLabel)
	rb.Set("Language", LanguageCSharp)
	rb.Set(e.profile.PathAttr, u.Path)
	rb.SetText(u.Source)
	if err := annotatePosition(rb, u.Root.Kind(), u.Root, u.Path); err != nil {
		return nil, e.fail(u, err)
	}

	// 2-4. Children
	if err := w.buildChildren(d, u.Root, rb, newFrame(u.Namespace)); err != nil {
		return nil, e.fail(u, err)
	}

	// 5. Root artifact
	if e.profile.RootArtifact {
		for _, a := range w.artifacts {
			if a.Kind == ArtifactType {
				rb.Set(AttrArtifact, a.ID)
				break
			}
		}
	}

	for _, diag := range w.diags {
		e.logger.Debug("degraded node", "path", u.Path, "diagnostic", diag.Error())
	}
	if len(w.diags) > 0 {
		e.logger.Warn("extracted unit with degraded attributes",
			"path", u.Path,
			"profile", e.profile.Name,
			"diagnostics", len(w.diags))
	}
	e.logger.Debug("extracted unit",
		"path", u.Path,
		"profile", e.profile.Name,
		"nodes", w.nodes+1,
		"artifacts", len(w.artifacts))

	return &Result{
		Document:    document.New(rb.Build(), LanguageCSharp, u.Path),
		Diagnostics: w.diags,
		Artifacts:   w.artifacts,
		Nodes:       w.nodes + 1,
	}, nil
}

func (e *Extractor) fail(u Unit, err error) error {
	var unsupported *UnsupportedConstructError
	if errors.As(err, &unsupported) {
		e.logger.Warn("unsupported construct",
			"path", u.Path,
			"kind", unsupported.Kind.String(),
			"construct", unsupported.Construct,
			"line", unsupported.Span.Start.Line)
	}
	return err
}
