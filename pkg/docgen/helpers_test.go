package docgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// source builds hand-made syntax trees whose spans point into real text.
type source struct {
	t     *testing.T
	text  string
	idx   *syntax.LineIndex
	texts map[syntax.Span]string
}

func newSource(t *testing.T, text string) *source {
	return &source{
		t:     t,
		text:  text,
		idx:   syntax.NewLineIndex([]byte(text)),
		texts: make(map[syntax.Span]string),
	}
}

// at returns the span of the nth occurrence of sub (nth defaults to 0).
func (s *source) at(sub string, nth ...int) syntax.Span {
	s.t.Helper()
	n := 0
	if len(nth) > 0 {
		n = nth[0]
	}
	from := 0
	for i := 0; ; i++ {
		off := strings.Index(s.text[from:], sub)
		require.GreaterOrEqual(s.t, off, 0, "%q occurrence %d not found", sub, n)
		if i == n {
			start := from + off
			span := s.idx.Span(start, start+len(sub))
			s.texts[span] = sub
			return span
		}
		from += off + 1
	}
}

func (s *source) node(kind syntax.Kind, sub string, nth ...int) *syntax.Node {
	s.t.Helper()
	return syntax.New(kind, s.at(sub, nth...))
}

func (s *source) root() *syntax.Node {
	span := s.idx.Span(0, len(s.text))
	s.texts[span] = s.text
	return syntax.New(syntax.KindCompilationUnit, span)
}

// requirePositionFidelity checks that every positioned node slices back to the
// exact text its syntax node was created from.
func (s *source) requirePositionFidelity(doc *document.Document) {
	s.t.Helper()
	checked := 0
	doc.Root().Walk(func(n *document.Node, _ int) bool {
		span, ok := SpanOf(n)
		if !ok {
			return true
		}
		want, known := s.texts[span]
		require.True(s.t, known, "%s has a span no syntax node produced", n.Label())
		require.Equal(s.t, want, s.idx.Slice(span), "slice of %s", n.Label())
		checked++
		return true
	})
	require.Positive(s.t, checked)
}

func (s *source) unit(members ...*syntax.Node) Unit {
	return Unit{
		Root:   s.root().Append(syntax.RoleMembers, members...),
		Path:   "test.cs",
		Source: s.text,
	}
}

func (s *source) slice(n *document.Node) string {
	s.t.Helper()
	span, ok := SpanOf(n)
	require.True(s.t, ok, "%s has no position", n.Label())
	return s.idx.Slice(span)
}

// labels returns the child labels of n.
func labels(n *document.Node) []string {
	out := make([]string, 0, n.ChildCount())
	for _, c := range n.Children() {
		out = append(out, c.Label())
	}
	return out
}

// withoutWrappers returns the children of n that carry a position.
func withoutWrappers(n *document.Node) []*document.Node {
	var out []*document.Node
	for _, c := range n.Children() {
		if _, ok := SpanOf(c); ok {
			out = append(out, c)
		}
	}
	return out
}

var errNotFound = errors.New("not found")

// fakeModel is a map-backed Model.
type fakeModel struct {
	symbols map[syntax.SymbolRef]SymbolInfo
	types   map[syntax.SymbolRef]string
}

func (m *fakeModel) Symbol(ref syntax.SymbolRef) (SymbolInfo, error) {
	if s, ok := m.symbols[ref]; ok {
		return s, nil
	}
	return SymbolInfo{}, errNotFound
}

func (m *fakeModel) TypeOf(ref syntax.SymbolRef) (string, error) {
	if t, ok := m.types[ref]; ok {
		return t, nil
	}
	return "", errNotFound
}
