package docgen

import (
	"strconv"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// Position attribute keys.
const (
	AttrStartLine = "StartLine"
	AttrStartCol  = "StartCol"
	AttrEndLine   = "EndLine"
	AttrEndCol    = "EndCol"
)

// annotatePosition attaches the 1-based span of n to b. Front-ends already
// normalize their coordinates (see syntax.LineIndex), so the span is copied
// as is once it has been checked.
func annotatePosition(b *document.NodeBuilder, kind syntax.Kind, n syntax.HasPosition, path string) error {
	span, ok := n.Position()
	if !ok || !span.Valid() {
		return &InvalidPositionError{Kind: kind, Path: path, Span: span}
	}

	b.SetInt(AttrStartLine, span.Start.Line)
	b.SetInt(AttrStartCol, span.Start.Col)
	b.SetInt(AttrEndLine, span.End.Line)
	b.SetInt(AttrEndCol, span.End.Col)
	return nil
}

// SpanOf reads the position attributes back from an output node.
func SpanOf(n *document.Node) (syntax.Span, bool) {
	var span syntax.Span
	fields := []struct {
		key string
		dst *int
	}{
		{AttrStartLine, &span.Start.Line},
		{AttrStartCol, &span.Start.Col},
		{AttrEndLine, &span.End.Line},
		{AttrEndCol, &span.End.Col},
	}
	for _, f := range fields {
		v, ok := n.Attr(f.key)
		if !ok {
			return syntax.Span{}, false
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return syntax.Span{}, false
		}
		*f.dst = i
	}
	return span, true
}
