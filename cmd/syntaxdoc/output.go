package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/frontend"
	"github.com/gnana997/syntaxdoc/pkg/indexer"
)

const (
	formatXML  = "xml"
	formatJSON = "json"

	defaultOutputDir = "syntaxdoc-out"
)

// outputWriter writes documents below one output directory.
type outputWriter struct {
	dir    string
	format string
	app    *app
}

func newOutputWriter(a *app, dir, format string) (*outputWriter, error) {
	if format != formatXML && format != formatJSON {
		return nil, fmt.Errorf("unknown format %q (want xml or json)", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &outputWriter{dir: dir, format: format, app: a}, nil
}

// sourceName mirrors a compilation unit's path relative to the project root,
// with the .cs extension replaced: src/Orders/Order.cs -> src/Orders/Order.xml.
func (w *outputWriter) sourceName(rel string) string {
	return strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)) + "." + w.format
}

// typeName names a decompiled type's document by its qualified name:
// A.B.Foo -> A.B.Foo.xml. Characters that cannot appear in file names
// (generic arity markers, nested type separators) become underscores.
func (w *outputWriter) typeName(qualified string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*', '`', '+':
			return '_'
		}
		return r
	}, qualified)
	return clean + "." + w.format
}

// write serializes doc to name, relative to the output directory.
func (w *outputWriter) write(name string, doc *document.Document) (string, error) {
	path := filepath.Join(w.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	switch w.format {
	case formatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", name, err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	default:
		if err := doc.WriteXMLFile(path); err != nil {
			return "", err
		}
	}

	w.app.written(path)
	return path, nil
}

// remove deletes a previously written document, ignoring a missing file.
func (w *outputWriter) remove(name string) error {
	path := filepath.Join(w.dir, filepath.FromSlash(name))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// writeDiagnostics writes errors.xml, or removes a stale one after a clean run.
func (w *outputWriter) writeDiagnostics(diags []document.Diagnostic) error {
	return document.WriteDiagnostics(filepath.Join(w.dir, document.DiagnosticsFileName), diags)
}

// errorDiagnostics converts a failed unit into diagnostics entries. A syntax
// error yields one entry per parser issue; anything else yields one entry,
// positioned when the error carries a span.
func errorDiagnostics(filename string, err error) []document.Diagnostic {
	var syntaxErr *frontend.SyntaxError
	if errors.As(err, &syntaxErr) && len(syntaxErr.Issues) > 0 {
		out := make([]document.Diagnostic, len(syntaxErr.Issues))
		for i, issue := range syntaxErr.Issues {
			out[i] = document.Diagnostic{
				Message:   issue.Message,
				Filename:  filename,
				StartLine: issue.Line,
				EndLine:   issue.EndLine,
			}
		}
		return out
	}

	d := document.Diagnostic{Message: err.Error(), Filename: filename}
	var unsupported *docgen.UnsupportedConstructError
	var invalid *docgen.InvalidPositionError
	switch {
	case errors.As(err, &unsupported) && !unsupported.Span.IsZero():
		d.StartLine, d.EndLine = unsupported.Span.Start.Line, unsupported.Span.End.Line
	case errors.As(err, &invalid) && invalid.Span.Start.Line > 0:
		d.StartLine, d.EndLine = invalid.Span.Start.Line, invalid.Span.End.Line
	}
	return []document.Diagnostic{d}
}

// batchDiagnostics converts the failed units of a batch, naming each file
// relative to root.
func batchDiagnostics(root string, errs []indexer.UnitError) []document.Diagnostic {
	var out []document.Diagnostic
	for _, ue := range errs {
		name := ue.Path
		if rel, err := filepath.Rel(root, ue.Path); err == nil {
			name = filepath.ToSlash(rel)
		}
		out = append(out, errorDiagnostics(name, ue.Err)...)
	}
	return out
}
