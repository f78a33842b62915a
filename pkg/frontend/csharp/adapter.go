// Package csharp adapts tree-sitter C# parse trees to syntax.Node trees.
//
// The adapter is a pure function of the tree and the source bytes. It maps
// grammar node types onto abstract kinds, fills the named tokens and child
// slots the document generator reads, converts byte offsets to 1-based
// positions, and stamps every node with a positional symbol reference
// (syntax.MakeRef). Grammar constructs with no abstract kind become
// KindInvalid nodes, which the generator rejects as unsupported.
package csharp

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/syntaxdoc/pkg/frontend"
	"github.com/gnana997/syntaxdoc/pkg/syntax"
)

// maxSyntaxIssues caps how many error locations a SyntaxError carries.
const maxSyntaxIssues = 10

// Adapter converts tree-sitter C# trees. It holds no per-tree state and is
// safe for concurrent use.
//
// Usage:
//
//	tree, _ := parserManager.Parse(src)
//	defer tree.Close()
//	root, err := csharp.NewAdapter(logger).Adapt(tree, src, "Program.cs")
type Adapter struct {
	logger *slog.Logger
}

// NewAdapter creates an adapter.
func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger}
}

// Adapt converts a parsed compilation unit. A tree containing ERROR or
// MISSING nodes is rejected with a *frontend.SyntaxError.
func (a *Adapter) Adapt(tree *ts.Tree, source []byte, path string) (*syntax.Node, error) {
	root := tree.RootNode()
	if root.HasError() {
		return nil, &frontend.SyntaxError{Path: path, Issues: collectIssues(root)}
	}

	c := &converter{src: source, idx: syntax.NewLineIndex(source)}
	unit := c.compilationUnit(root)
	if len(c.unknown) > 0 {
		a.logger.Debug("unmapped grammar nodes", "path", path, "kinds", strings.Join(c.unknown, ","))
	}
	return unit, nil
}

// collectIssues walks the tree for error and missing nodes.
func collectIssues(root *ts.Node) []frontend.SyntaxIssue {
	var issues []frontend.SyntaxIssue
	var walk func(n *ts.Node)
	walk = func(n *ts.Node) {
		if len(issues) >= maxSyntaxIssues {
			return
		}
		if n.IsError() || n.IsMissing() {
			start, end := n.StartPosition(), n.EndPosition()
			msg := "unexpected input"
			if n.IsMissing() {
				msg = "missing " + n.Kind()
			}
			issues = append(issues, frontend.SyntaxIssue{
				Line:    int(start.Row) + 1,
				Col:     int(start.Column) + 1,
				EndLine: int(end.Row) + 1,
				Message: msg,
			})
			return
		}
		if !n.HasError() {
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
	return issues
}

// converter carries the per-tree state of one Adapt call.
type converter struct {
	src     []byte
	idx     *syntax.LineIndex
	unknown []string
}

func (c *converter) text(n *ts.Node) string {
	return n.Utf8Text(c.src)
}

// compact returns the node text with all whitespace removed, for dotted names
// written across lines.
func (c *converter) compact(n *ts.Node) string {
	return strings.Join(strings.Fields(c.text(n)), "")
}

func (c *converter) span(n *ts.Node) syntax.Span {
	return c.idx.Span(int(n.StartByte()), int(n.EndByte()))
}

func (c *converter) spanRange(from, to *ts.Node) syntax.Span {
	return c.idx.Span(int(from.StartByte()), int(to.EndByte()))
}

func (c *converter) newSpan(kind syntax.Kind, span syntax.Span) *syntax.Node {
	return syntax.New(kind, span).SetSymbol(syntax.MakeRef(kind, span))
}

func (c *converter) make(kind syntax.Kind, n *ts.Node) *syntax.Node {
	return c.newSpan(kind, c.span(n))
}

// unsupported maps a grammar node with no abstract kind.
func (c *converter) unsupported(n *ts.Node) *syntax.Node {
	c.unknown = append(c.unknown, n.Kind())
	return syntax.New(syntax.KindInvalid, c.span(n)).SetToken(syntax.TokenSourceKind, n.Kind())
}

// Tree helpers.

func children(n *ts.Node) []*ts.Node {
	out := make([]*ts.Node, 0, n.ChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// isTrivia reports comments and preprocessor directives.
func isTrivia(n *ts.Node) bool {
	return n.Kind() == "comment" || strings.HasPrefix(n.Kind(), "preproc_")
}

// named returns the named children of n, without trivia.
func named(n *ts.Node) []*ts.Node {
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.IsExtra() || isTrivia(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *ts.Node) *ts.Node {
	if all := named(n); len(all) > 0 {
		return all[0]
	}
	return nil
}

func lastNamed(n *ts.Node) *ts.Node {
	if all := named(n); len(all) > 0 {
		return all[len(all)-1]
	}
	return nil
}

func childOfKind(n *ts.Node, kinds ...string) *ts.Node {
	for _, child := range children(n) {
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *ts.Node, tok string) bool {
	for _, child := range children(n) {
		if !child.IsNamed() && child.Kind() == tok {
			return true
		}
	}
	return false
}

// afterToken returns the first named child following the anonymous token tok.
func afterToken(n *ts.Node, tok string) *ts.Node {
	seen := false
	for _, child := range children(n) {
		if !child.IsNamed() && child.Kind() == tok {
			seen = true
			continue
		}
		if seen && child.IsNamed() && !isTrivia(child) {
			return child
		}
	}
	return nil
}

// field returns the child under one of the given field names.
func field(n *ts.Node, names ...string) *ts.Node {
	for _, name := range names {
		if child := n.ChildByFieldName(name); child != nil {
			return child
		}
	}
	return nil
}

// Comments and directives.

// comment maps a comment node.
func (c *converter) comment(n *ts.Node) *syntax.Node {
	text := c.text(n)
	commentType, content := "SingleLine", text
	switch {
	case strings.HasPrefix(text, "///"):
		commentType, content = "Documentation", strings.TrimPrefix(text, "///")
	case strings.HasPrefix(text, "//"):
		content = strings.TrimPrefix(text, "//")
	case strings.HasPrefix(text, "/**"):
		commentType, content = "MultiLineDocumentation", strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	case strings.HasPrefix(text, "/*"):
		commentType, content = "MultiLine", strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	}
	return c.make(syntax.KindComment, n).
		SetToken("CommentType", commentType).
		SetToken("Content", content)
}

// directive maps a preprocessor directive. Conditional blocks keep the
// members they enclose; elem converts those members in the caller's context.
func (c *converter) directive(n *ts.Node, elem func(*ts.Node) *syntax.Node) *syntax.Node {
	out := c.make(syntax.KindPreProcessorDirective, n).
		SetToken("Type", strings.TrimPrefix(n.Kind(), "preproc_"))

	var members []*syntax.Node
	argumentDone := false
	for _, child := range children(n) {
		if !child.IsNamed() {
			continue
		}
		if !argumentDone && !isMemberLike(child) {
			out.SetToken("Argument", strings.TrimSpace(c.text(child)))
			argumentDone = true
			continue
		}
		if m := c.listItem(child, elem); m != nil {
			members = append(members, m)
		}
	}
	return out.Append(syntax.RoleMembers, members...)
}

// isMemberLike reports grammar nodes that are list elements rather than a
// directive's argument.
func isMemberLike(n *ts.Node) bool {
	k := n.Kind()
	return strings.HasSuffix(k, "_declaration") ||
		strings.HasSuffix(k, "_statement") ||
		strings.HasSuffix(k, "_directive") ||
		k == "block" || k == "comment" ||
		strings.HasPrefix(k, "preproc_")
}

// listItem converts one element of a member or statement list, mapping
// trivia itself and handing everything else to elem.
func (c *converter) listItem(n *ts.Node, elem func(*ts.Node) *syntax.Node) *syntax.Node {
	switch {
	case n.Kind() == "comment":
		return c.comment(n)
	case strings.HasPrefix(n.Kind(), "preproc_"):
		return c.directive(n, elem)
	case !n.IsNamed():
		return nil
	}
	return elem(n)
}

// list converts the named children of n with elem, keeping comments and
// directives, and attaches leading comments to the declarations they
// precede.
func (c *converter) list(nodes []*ts.Node, elem func(*ts.Node) *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	var pending []*ts.Node
	for _, n := range nodes {
		if !n.IsNamed() {
			continue
		}
		item := c.listItem(n, elem)
		if item == nil {
			continue
		}
		out = append(out, item)

		if n.Kind() == "comment" {
			if len(pending) > 0 && pending[len(pending)-1].EndPosition().Row+1 < n.StartPosition().Row {
				pending = pending[:0]
			}
			pending = append(pending, n)
			continue
		}
		if len(pending) > 0 && pending[len(pending)-1].EndPosition().Row+1 >= n.StartPosition().Row {
			item.SetComment(c.leadingComment(pending))
		}
		pending = pending[:0]
	}
	return out
}

func (c *converter) leadingComment(comments []*ts.Node) string {
	lines := make([]string, 0, len(comments))
	for _, n := range comments {
		content, _ := c.comment(n).Token("Content")
		lines = append(lines, strings.TrimSpace(content))
	}
	return strings.Join(lines, "\n")
}

// Compilation unit and namespaces.

func (c *converter) compilationUnit(root *ts.Node) *syntax.Node {
	unit := syntax.New(syntax.KindCompilationUnit, c.idx.Span(0, len(c.src)))
	unit.SetSymbol(syntax.MakeRef(syntax.KindCompilationUnit, unit.Span()))

	all := children(root)
	for i, n := range all {
		if n.Kind() != "file_scoped_namespace_declaration" {
			continue
		}
		// Members that follow a file-scoped namespace belong to it.
		before := c.list(all[:i], c.topLevel)
		ns := c.fileScopedNamespace(n, all[i+1:])
		return unit.Append(syntax.RoleMembers, append(before, ns)...)
	}
	return unit.Append(syntax.RoleMembers, c.list(all, c.topLevel)...)
}

// topLevel converts one compilation-unit member.
func (c *converter) topLevel(n *ts.Node) *syntax.Node {
	switch n.Kind() {
	case "using_directive":
		return c.using(n)
	case "extern_alias_directive":
		return c.make(syntax.KindExternAliasDeclaration, n).SetToken("Name", c.text(lastNamed(n)))
	case "global_attribute", "global_attribute_list":
		return c.globalAttributes(n)
	case "global_statement":
		out := c.make(syntax.KindGlobalStatement, n)
		if stmt := firstNamed(n); stmt != nil {
			out.Set(syntax.RoleStatement, c.statement(stmt))
		}
		return out
	}
	return c.member(n)
}

func (c *converter) using(n *ts.Node) *syntax.Node {
	parts := named(n)
	if len(parts) == 0 {
		return c.unsupported(n)
	}
	if hasToken(n, "=") && len(parts) > 1 {
		return c.make(syntax.KindUsingAliasDeclaration, n).
			SetToken("Alias", c.text(parts[0])).
			SetFlag("IsGlobal", hasToken(n, "global")).
			Set(syntax.RoleType, c.typ(parts[len(parts)-1]))
	}
	return c.make(syntax.KindUsingDeclaration, n).
		SetToken("Name", c.compact(parts[len(parts)-1])).
		SetFlag("IsStatic", hasToken(n, "static")).
		SetFlag("IsGlobal", hasToken(n, "global"))
}

func (c *converter) namespace(n *ts.Node) *syntax.Node {
	out := c.make(syntax.KindNamespaceDeclaration, n)
	if name := field(n, "name"); name != nil {
		out.SetToken("Name", c.compact(name))
	}
	body := field(n, "body")
	if body == nil {
		body = childOfKind(n, "declaration_list")
	}
	if body != nil {
		out.Append(syntax.RoleMembers, c.list(children(body), c.topLevel)...)
	}
	return out
}

// fileScopedNamespace maps `namespace N;`. Grammar versions differ on whether
// the following members are its children or its siblings, so both are taken
// and the span is widened to cover them.
func (c *converter) fileScopedNamespace(n *ts.Node, siblings []*ts.Node) *syntax.Node {
	name := field(n, "name")
	var own []*ts.Node
	for _, child := range children(n) {
		if name != nil && child.StartByte() == name.StartByte() && child.EndByte() == name.EndByte() {
			continue
		}
		own = append(own, child)
	}
	members := c.list(append(own, siblings...), c.topLevel)

	span := c.span(n)
	for _, m := range members {
		span = span.Cover(m.Span())
	}
	out := c.newSpan(syntax.KindNamespaceDeclaration, span).SetFlag("IsFileScoped", true)
	if name != nil {
		out.SetToken("Name", c.compact(name))
	}
	return out.Append(syntax.RoleMembers, members...)
}
