package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/docgen"
	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
	"github.com/gnana997/syntaxdoc/pkg/util"
)

type inspectFlags struct {
	noSnippet bool
	fromDisk  bool
}

func newInspectCmd(a *app) *cobra.Command {
	f := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect <document.xml> [artifact-id]",
		Short: "Summarize a written document, or show one of its artifacts",
		Long: `Inspect reads an XML document written by extract, decompiled or watch.

Without an artifact identifier it lists the document's artifacts. With one, it
prints the artifact's attributes and its source text. The source text comes
from the document itself unless --disk asks for the file it was extracted
from, which shows whether the document is stale.

Examples:
  syntaxdoc inspect syntaxdoc-out/src/Order.xml
  syntaxdoc inspect syntaxdoc-out/src/Order.xml 'Method:Shop.Order.Total(int)'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadXMLFile(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return printArtifacts(cmd.OutOrStdout(), doc)
			}
			return a.printArtifact(cmd.OutOrStdout(), doc, args[1], f)
		},
	}
	cmd.Flags().BoolVar(&f.noSnippet, "no-snippet", false, "omit the artifact's source text")
	cmd.Flags().BoolVar(&f.fromDisk, "disk", false, "read the source text from the extracted file on disk")
	return cmd
}

func printArtifacts(out io.Writer, doc *document.Document) error {
	nodes := 0
	doc.Root().Walk(func(*document.Node, int) bool {
		nodes++
		return true
	})

	ids := doc.Artifacts()
	fmt.Fprintf(out, "%s document %s: %d nodes, %d artifacts\n", doc.Language(), doc.Path(), nodes, len(ids))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, id := range ids {
		node := doc.FindArtifact(id)
		pos := ""
		if span, ok := docgen.SpanOf(node); ok {
			pos = fmt.Sprintf("%d:%d", span.Start.Line, span.Start.Col)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", id, node.Label(), pos)
	}
	return tw.Flush()
}

func (a *app) printArtifact(out io.Writer, doc *document.Document, id string, f *inspectFlags) error {
	node := doc.FindArtifact(id)
	if node == nil {
		return fmt.Errorf("artifact %s not found in %s", id, doc.Path())
	}

	fmt.Fprintf(out, "%s %s\n", node.Label(), id)
	tw := tabwriter.NewWriter(out, 0, 4, 1, ' ', 0)
	for _, attr := range node.Attrs() {
		fmt.Fprintf(tw, "  %s\t= %s\n", attr.Key, attr.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	span, ok := docgen.SpanOf(node)
	if f.noSnippet || !ok {
		return nil
	}
	snippet, err := a.snippet(doc, span, f.fromDisk)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", snippet)
	return nil
}

func (a *app) snippet(doc *document.Document, span syntax.Span, fromDisk bool) (string, error) {
	if !fromDisk {
		return syntax.NewLineIndex([]byte(doc.Source())).Slice(span), nil
	}

	config := util.DefaultFileCacheConfig()
	config.Logger = a.logger
	files := util.NewFileCache(config)
	defer files.Close()

	text, err := files.FetchSpan(doc.Path(), span)
	if err != nil {
		return "", fmt.Errorf("failed to read source of %s: %w", doc.Path(), err)
	}
	return text, nil
}
