package docgen

import (
	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// walker holds the private state of one unit's traversal. Nothing in it is
// shared between units, so independent walkers may run in parallel.
type walker struct {
	profile   Profile
	path      string
	enricher  *enricher
	diags     []Diagnostic
	artifacts []Artifact
	nodes     int
}

func (w *walker) report(d Diagnostic) {
	w.diags = append(w.diags, d)
}

func (w *walker) enrichEnabled(t tier) bool {
	if w.enricher == nil {
		return false
	}
	switch t {
	case tierDeclaration:
		return w.profile.DeclarationSymbols
	case tierExpression:
		return w.profile.ExpressionTypes
	}
	return false
}

// build maps n and its subtree. The returned node is complete: its children
// were built by recursive calls that each returned their own node.
func (w *walker) build(n *syntax.Node, f frame) (*document.Node, error) {
	d, ok := lookup(n.Kind())
	if !ok {
		return nil, &UnsupportedConstructError{
			Kind:      n.Kind(),
			Construct: n.TokenOr(syntax.TokenSourceKind, ""),
			Path:      w.path,
			Span:      n.Span(),
		}
	}

	b := document.NewNodeBuilder(d.label)
	if err := w.annotate(d, n, b, f); err != nil {
		return nil, err
	}
	if err := w.buildChildren(d, n, b, f); err != nil {
		return nil, err
	}
	w.nodes++
	return b.Build(), nil
}

// annotate attaches a node's own attributes: syntactic ones first, then
// modifier flags, the artifact identifier, resolved facts, the leading comment
// and finally the position.
func (w *walker) annotate(d *descriptor, n *syntax.Node, b *document.NodeBuilder, f frame) error {
	for _, attr := range d.attrs {
		attr(n, b)
	}
	if d.modifiers {
		modifierFlags(n, b)
	}
	if d.artifact != "" {
		w.assignArtifact(d.artifact, n, b, f)
	}
	if d.enrich != nil && w.enrichEnabled(d.tier) {
		d.enrich(w.enricher, n, b, f)
	}
	if d.comment && w.profile.Comments && n.Comment() != "" {
		b.Set("Comment", n.Comment())
	}
	return annotatePosition(b, n.Kind(), n, w.path)
}

// buildChildren follows the descriptor's child plan. A populated slot the
// plan does not consume would be silently dropped, so it is reported as an
// unsupported construct instead.
func (w *walker) buildChildren(d *descriptor, n *syntax.Node, b *document.NodeBuilder, f frame) error {
	for _, role := range n.Roles() {
		s, ok := d.stepFor(role)
		if !ok || (!s.many && len(n.Children(role)) > 1) {
			return &UnsupportedConstructError{Kind: n.Kind(), Role: role, Path: w.path, Span: n.Span()}
		}
	}

	inner := f
	inner.inBaseList = false
	if d.scope != nil {
		inner = d.scope(n, inner)
	}

	for _, s := range d.children {
		var nodes []*syntax.Node
		if s.many {
			nodes = w.withoutComments(n.Children(s.role))
		} else if c := n.Child(s.role); c != nil {
			nodes = []*syntax.Node{c}
		}

		cf := inner
		if s.ctx != nil {
			cf = s.ctx(cf)
		}

		if s.group == "" {
			for _, c := range nodes {
				child, err := w.build(c, cf)
				if err != nil {
					return err
				}
				b.Append(child)
			}
			continue
		}

		if len(nodes) == 0 && !s.always {
			continue
		}
		wrapper := document.NewNodeBuilder(s.group)
		for _, c := range nodes {
			child, err := w.build(c, cf)
			if err != nil {
				return err
			}
			wrapper.Append(child)
		}
		b.Append(wrapper.Build())
	}
	return nil
}

// withoutComments drops Comment nodes unless the profile emits them.
func (w *walker) withoutComments(nodes []*syntax.Node) []*syntax.Node {
	if w.profile.CommentNodes {
		return nodes
	}
	var out []*syntax.Node
	for _, n := range nodes {
		if n.Kind() != syntax.KindComment {
			out = append(out, n)
		}
	}
	return out
}
